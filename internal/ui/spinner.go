package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/tasks"
)

var _ tasks.Library = (*SpinningLibrary)(nil)

// Spin runs action while showing a spinner titled title.
func Spin(ctx context.Context, title string, action func(ctx context.Context) error) error {
	return spinner.New().Title(title).Context(ctx).ActionWithErr(action).Run()
}

// SpinningLibrary shows a spinner while the wrapped [tasks.Library] fetches.
type SpinningLibrary struct {
	tasks.Library
	spin func(ctx context.Context, title string, action func(ctx context.Context) error) error
}

// WithSpinner wraps lib so every fetch shows a spinner.
func WithSpinner(lib tasks.Library) *SpinningLibrary {
	return &SpinningLibrary{Library: lib, spin: Spin}
}

func (s *SpinningLibrary) Playlists(ctx context.Context, credential string) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := s.spin(ctx, "Fetching your playlists...", func(ctx context.Context) error {
		var err error
		playlists, err = s.Library.Playlists(ctx, credential)
		return err
	})
	return playlists, err
}

func (s *SpinningLibrary) Tracks(ctx context.Context, credential string, playlist models.Playlist) ([]models.Track, error) {
	var tracks []models.Track
	err := s.spin(ctx, fmt.Sprintf("Fetching tracks from '%s'...", playlist.Name), func(ctx context.Context) error {
		var err error
		tracks, err = s.Library.Tracks(ctx, credential, playlist)
		return err
	})
	return tracks, err
}
