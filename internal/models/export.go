package models

import (
	"fmt"
	"time"
)

var _ Model = (*ExportRecord)(nil)

// ExportRecord records one CSV file written for a playlist.
type ExportRecord struct {
	id           string
	sessionID    string
	playlistName string
	path         string
	trackCount   int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewExportRecord creates an unsaved [ExportRecord]. The ID is assigned by the repository.
func NewExportRecord(sessionID, playlistName, path string, trackCount int) *ExportRecord {
	now := time.Now().UTC()
	return &ExportRecord{
		sessionID:    sessionID,
		playlistName: playlistName,
		path:         path,
		trackCount:   trackCount,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (e *ExportRecord) ID() string           { return e.id }
func (e *ExportRecord) SessionID() string    { return e.sessionID }
func (e *ExportRecord) PlaylistName() string { return e.playlistName }
func (e *ExportRecord) Path() string         { return e.path }
func (e *ExportRecord) TrackCount() int      { return e.trackCount }
func (e *ExportRecord) CreatedAt() time.Time { return e.createdAt }
func (e *ExportRecord) UpdatedAt() time.Time { return e.updatedAt }

func (e *ExportRecord) SetID(id string)             { e.id = id }
func (e *ExportRecord) SetCreatedAt(t time.Time)    { e.createdAt = t }
func (e *ExportRecord) SetUpdatedAt(t time.Time)    { e.updatedAt = t }
func (e *ExportRecord) SetPath(path string)         { e.path = path }
func (e *ExportRecord) SetTrackCount(count int)     { e.trackCount = count }
func (e *ExportRecord) SetPlaylistName(name string) { e.playlistName = name }

// Validate checks required fields.
func (e *ExportRecord) Validate() error {
	if e.playlistName == "" {
		return fmt.Errorf("playlist name is required")
	}
	if e.path == "" {
		return fmt.Errorf("path is required")
	}
	if e.trackCount < 0 {
		return fmt.Errorf("track count must not be negative")
	}
	return nil
}
