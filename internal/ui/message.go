package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plx/internal/models"
)

// MsgKind enumerates all message types in the browser.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
	err  error
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsFetched MsgKind = iota
	MsgTracksFetched
	MsgExported
)

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlists, err: err}
}

// tracksFetchedMsg is the constructor for [MsgTracksFetched]
func tracksFetchedMsg(export *models.PlaylistExport, err error) Msg {
	return Msg{kind: MsgTracksFetched, data: export, err: err}
}

// exportedMsg is the constructor for [MsgExported]
func exportedMsg(path string, err error) Msg {
	return Msg{kind: MsgExported, data: path, err: err}
}
