// package models defines the data model for the playlist extractor
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Playlist represents a user playlist as listed by the /me/playlists endpoint.
type Playlist struct {
	ID         string
	Name       string
	TracksHref string // first page of the playlist's tracks
	TrackCount int
}

// Track represents a single playlist entry flattened for display and export.
type Track struct {
	Title       string
	DurationMs  int
	Artist      string // primary artist
	Album       string
	ReleaseDate string // as provided by the service, not validated
	ExternalURL string
}

// Duration formats DurationMs as HH:MM:SS.
//
// Hours wrap at 24, so tracks are assumed to be shorter than a day.
func (t Track) Duration() string {
	return FormatDuration(t.DurationMs)
}

// FormatDuration converts milliseconds to a zero-padded HH:MM:SS string.
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	seconds := (ms / 1000) % 60
	minutes := (ms / (1000 * 60)) % 60
	hours := (ms / (1000 * 60 * 60)) % 24
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// PlaylistExport represents a playlist with all of its tracks.
type PlaylistExport struct {
	Playlist Playlist
	Tracks   []Track
}
