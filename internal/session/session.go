// package session holds the state of one interactive run
package session

import (
	"sync"

	"github.com/desertthunder/plx/internal/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Session carries the access credential and the fetched playlists between steps of a run.
//
// It is safe for concurrent use.
type Session struct {
	id uuid.UUID

	mu         sync.RWMutex
	credential string
	playlists  []models.Playlist
}

// New creates an unauthenticated session with a fresh ID.
func New() *Session {
	return &Session{id: uuid.New()}
}

// ID identifies the run, e.g. in export history.
func (s *Session) ID() string {
	return s.id.String()
}

func (s *Session) SetCredential(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
}

func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Authenticated reports whether a credential has been set.
func (s *Session) Authenticated() bool {
	return s.Credential() != ""
}

// SetPlaylists replaces the stored playlists with a copy of playlists.
func (s *Session) SetPlaylists(playlists []models.Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists = append([]models.Playlist(nil), playlists...)
}

// Playlists returns a copy of the stored playlists.
func (s *Session) Playlists() []models.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Playlist(nil), s.playlists...)
}

// PlaylistNames returns the playlist names in fetch order.
func (s *Session) PlaylistNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.playlists, func(p models.Playlist, _ int) string { return p.Name })
}

// FindPlaylist returns the first playlist named name.
func (s *Session) FindPlaylist(name string) (models.Playlist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.playlists, func(p models.Playlist) bool { return p.Name == name })
}
