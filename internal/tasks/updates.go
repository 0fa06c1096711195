package tasks

import (
	"fmt"

	"github.com/desertthunder/plx/internal/models"
)

// ProgressUpdate represents a progress event during an interactive session.
type ProgressUpdate struct {
	Phase   Phase  // Session phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Session phase enumeration
type Phase int

const (
	Authorize Phase = iota
	FetchPlaylists
	FetchTracks
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case Authorize:
		return "authorize"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchTracks:
		return "fetch_tracks"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func authorizeUpdate(attempt int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Authorize,
		Message: fmt.Sprintf("Waiting for Spotify authorization (attempt %d)...", attempt),
		Data:    attempt,
	}
}

func playlistsUpdate(playlists []models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Message: fmt.Sprintf("Found %d playlists", len(playlists)),
		Data:    len(playlists),
	}
}

func tracksUpdate(export *models.PlaylistExport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Message: fmt.Sprintf("Fetched %d tracks from '%s'", len(export.Tracks), export.Playlist.Name),
		Data:    export,
	}
}

func exportUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Message: fmt.Sprintf("Exported to %s", path),
		Data:    path,
	}
}
