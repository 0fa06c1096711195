package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/session"
	"github.com/desertthunder/plx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
)

// BrowseOpts contains the dependencies of the browser [Model]. History and Logger are optional.
type BrowseOpts struct {
	Session  *session.Session
	Library  tasks.Library
	Exporter tasks.Exporter
	History  tasks.HistoryRecorder
	Logger   *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	session      *session.Session
	library      tasks.Library
	exporter     tasks.Exporter
	history      tasks.HistoryRecorder
	logger       *log.Logger
	width        int
	height       int
	playlistList list.Model
	trackList    list.Model
	selected     *models.PlaylistExport
	loading      bool
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model. The session must already hold a credential.
func NewModel(ctx context.Context, opts BrowseOpts) *Model {
	m := &Model{
		ctx:          ctx,
		view:         PlaylistListView,
		session:      opts.Session,
		library:      opts.Library,
		exporter:     opts.Exporter,
		history:      opts.History,
		logger:       opts.Logger,
		playlistList: newList(nil, "Spotify Playlists"),
		trackList:    newList(nil, ""),
		help:         help.New(),
		keys:         newKeyMap(),
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	return m
}

func newList(items []list.Item, title string) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.Styles.Title = l.Styles.Title.Background(styles.title.GetForeground())
	l.SetShowHelp(false)
	return l
}

// Init initializes the TUI by loading playlists, fetching them only when the session has none.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	if playlists := m.session.Playlists(); len(playlists) > 0 {
		return func() tea.Msg { return playlistsFetchedMsg(playlists, nil) }
	}
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-6)
		m.trackList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && !m.filtering() {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.help) && !m.filtering() {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	m.loading = false

	switch msg.kind {
	case MsgPlaylistsFetched:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		playlists := msg.data.([]models.Playlist)
		m.session.SetPlaylists(playlists)
		m.playlistList.SetItems(playlistItems(playlists))
		m.status = fmt.Sprintf("%d playlists", len(playlists))

	case MsgTracksFetched:
		if msg.err != nil {
			m.status = styles.Error(fmt.Sprintf("Failed to fetch tracks: %v", msg.err))
			return m, nil
		}
		m.selected = msg.data.(*models.PlaylistExport)
		m.trackList.SetItems(trackItems(m.selected.Tracks))
		m.trackList.Title = fmt.Sprintf("Tracks in '%s'", m.selected.Playlist.Name)
		m.trackList.ResetSelected()
		m.status = ""
		m.view = TrackListView

	case MsgExported:
		if msg.err != nil {
			m.status = styles.Error(fmt.Sprintf("Export failed: %v", msg.err))
			return m, nil
		}
		m.status = styles.Success(fmt.Sprintf("✓ Saved to %s", msg.data.(string)))
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.Error(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.render(m.playlistList)
	case TrackListView:
		return m.render(m.trackList)
	default:
		return ""
	}
}

func (m *Model) render(l list.Model) string {
	status := m.status
	if m.loading {
		status = styles.Help("Loading...")
	}
	keys := m.keys
	keys.tracks = m.view == TrackListView
	return fmt.Sprintf("%s\n%s\n%s", l.View(), status, m.help.View(keys))
}

func (m *Model) filtering() bool {
	switch m.view {
	case PlaylistListView:
		return m.playlistList.FilterState() == list.Filtering
	case TrackListView:
		return m.trackList.FilterState() == list.Filtering
	}
	return false
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.enter) && !m.filtering() && !m.loading {
		if pl, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.loading = true
			return m, m.fetchTracks(pl.playlist)
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.filtering() {
		switch {
		case key.Matches(msg, m.keys.back):
			m.view = PlaylistListView
			m.status = ""
			return m, nil
		case key.Matches(msg, m.keys.export) && m.selected != nil && !m.loading:
			m.loading = true
			return m, m.export(m.selected)
		}
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	credential := m.session.Credential()
	return func() tea.Msg {
		playlists, err := m.library.Playlists(m.ctx, credential)
		return playlistsFetchedMsg(playlists, err)
	}
}

func (m *Model) fetchTracks(playlist models.Playlist) tea.Cmd {
	credential := m.session.Credential()
	return func() tea.Msg {
		tracks, err := m.library.Tracks(m.ctx, credential, playlist)
		if err != nil {
			return tracksFetchedMsg(nil, err)
		}
		return tracksFetchedMsg(&models.PlaylistExport{Playlist: playlist, Tracks: tracks}, nil)
	}
}

func (m *Model) export(export *models.PlaylistExport) tea.Cmd {
	sessionID := m.session.ID()
	return func() tea.Msg {
		path, err := m.exporter.Export(m.ctx, export)
		if err != nil {
			return exportedMsg("", err)
		}
		if m.history != nil {
			record := models.NewExportRecord(sessionID, export.Playlist.Name, path, len(export.Tracks))
			if err := m.history.Create(record); err != nil {
				m.logger.Warn("failed to record export", "path", path, "error", err)
			}
		}
		return exportedMsg(path, nil)
	}
}
