// package services defines interface Service for the music service HTTP APIs
package services

import (
	"context"

	"github.com/desertthunder/plx/internal/models"
)

// Service defines the operations plx needs from a music service.
type Service interface {
	// AuthURL returns the URL the user opens to grant access.
	AuthURL() string

	// Exchange trades an authorization code for an access credential.
	Exchange(ctx context.Context, code string) (string, error)

	// Playlists retrieves every playlist of the authenticated user.
	Playlists(ctx context.Context, credential string) ([]models.Playlist, error)

	// Tracks retrieves every track of the given playlist.
	Tracks(ctx context.Context, credential string, playlist models.Playlist) ([]models.Track, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
