package tasks

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/shared"
	th "github.com/desertthunder/plx/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHistory struct {
	records []*models.ExportRecord
	err     error
}

func (h *recordingHistory) Create(record *models.ExportRecord) error {
	if h.err != nil {
		return h.err
	}
	h.records = append(h.records, record)
	return nil
}

type fixture struct {
	service  *th.FakeService
	auth     *th.ScriptedAuthorizer
	prompt   *th.ScriptedPrompter
	render   *th.RecordingRenderer
	exporter *th.RecordingExporter
	history  *recordingHistory
	progress chan ProgressUpdate
}

func newFixture() *fixture {
	return &fixture{
		service: &th.FakeService{
			PlaylistSet: []models.Playlist{
				{ID: "p1", Name: "Rock/Pop.", TrackCount: 2},
				{ID: "p2", Name: "Jazz", TrackCount: 1},
			},
			TrackSets: map[string][]models.Track{
				"p1": {{Title: "One", DurationMs: 3661000}, {Title: "Two"}},
				"p2": {{Title: "Blue"}},
			},
		},
		auth:     &th.ScriptedAuthorizer{Results: []th.AuthResult{{Credential: "tok"}}},
		prompt:   &th.ScriptedPrompter{},
		render:   &th.RecordingRenderer{},
		exporter: &th.RecordingExporter{Path: "/tmp/RockPop.csv"},
		history:  &recordingHistory{},
		progress: make(chan ProgressUpdate, 32),
	}
}

func (f *fixture) extractor() *Extractor {
	return NewExtractor(ExtractorOpts{
		Authorizer: f.auth,
		Library:    f.service,
		Prompter:   f.prompt,
		Renderer:   f.render,
		Exporter:   f.exporter,
		History:    f.history,
		Progress:   f.progress,
		Logger:     log.New(io.Discard),
	})
}

func TestExtractor(t *testing.T) {
	ctx := context.Background()

	t.Run("declining welcome makes no network calls", func(t *testing.T) {
		f := newFixture()
		f.prompt.Confirms = []bool{false}

		require.NoError(t, f.extractor().Run(ctx))
		assert.Zero(t, f.auth.Calls)
		assert.Zero(t, f.service.NetworkCalls())
	})

	t.Run("view then done", func(t *testing.T) {
		f := newFixture()
		f.prompt.Confirms = []bool{true}
		f.prompt.Selections = []string{"Rock/Pop.", OptionDone}

		e := f.extractor()
		require.NoError(t, e.Run(ctx))

		assert.Equal(t, 1, f.auth.Calls)
		assert.Equal(t, 1, f.service.PlaylistCalls)
		assert.Equal(t, 1, f.service.TrackCalls)
		require.Len(t, f.render.Rendered, 1)
		assert.Equal(t, "p1", f.render.Rendered[0].Playlist.ID)
		assert.Len(t, f.render.Rendered[0].Tracks, 2)
		assert.Empty(t, f.exporter.Exported)

		assert.True(t, e.Session().Authenticated())
		assert.Len(t, e.Session().Playlists(), 2)
		assert.Equal(t, []string{"Rock/Pop.", "Jazz"}, f.prompt.Offered[0])
		assert.Equal(t, []string{OptionExport, OptionAnother, OptionDone}, f.prompt.Offered[1])
	})

	t.Run("quit after display makes no further network calls", func(t *testing.T) {
		f := newFixture()
		f.prompt.Confirms = []bool{true}
		f.prompt.Selections = []string{"Jazz", OptionDone}

		require.NoError(t, f.extractor().Run(ctx))
		assert.Equal(t, 2, f.service.NetworkCalls())
	})

	t.Run("export then menu without export", func(t *testing.T) {
		f := newFixture()
		f.prompt.Confirms = []bool{true}
		f.prompt.Selections = []string{"Rock/Pop.", OptionExport, OptionDone}

		e := f.extractor()
		require.NoError(t, e.Run(ctx))

		require.Len(t, f.exporter.Exported, 1)
		assert.Equal(t, "Rock/Pop.", f.exporter.Exported[0].Playlist.Name)
		assert.Equal(t, []string{OptionAnother, OptionDone}, f.prompt.Offered[2])
		assert.Contains(t, f.render.Messages, "Saved 2 tracks to /tmp/RockPop.csv")

		require.Len(t, f.history.records, 1)
		record := f.history.records[0]
		assert.Equal(t, e.Session().ID(), record.SessionID())
		assert.Equal(t, "/tmp/RockPop.csv", record.Path())
		assert.Equal(t, 2, record.TrackCount())
	})

	t.Run("another playlist loops", func(t *testing.T) {
		f := newFixture()
		f.prompt.Confirms = []bool{true}
		f.prompt.Selections = []string{"Rock/Pop.", OptionAnother, "Jazz", OptionDone}

		require.NoError(t, f.extractor().Run(ctx))
		assert.Equal(t, 2, f.service.TrackCalls)
		assert.Len(t, f.render.Rendered, 2)
		assert.Equal(t, 1, f.service.PlaylistCalls)
	})

	t.Run("export failure keeps the option", func(t *testing.T) {
		f := newFixture()
		f.exporter.Err = shared.ErrExportFailed
		f.prompt.Confirms = []bool{true}
		f.prompt.Selections = []string{"Jazz", OptionExport, OptionDone}

		require.NoError(t, f.extractor().Run(ctx))
		assert.Equal(t, []string{OptionExport, OptionAnother, OptionDone}, f.prompt.Offered[2])
		assert.Empty(t, f.history.records)
	})

	t.Run("history failure does not fail the export", func(t *testing.T) {
		f := newFixture()
		f.history.err = errors.New("disk full")
		f.prompt.Confirms = []bool{true}
		f.prompt.Selections = []string{"Jazz", OptionExport, OptionDone}

		require.NoError(t, f.extractor().Run(ctx))
		assert.Len(t, f.exporter.Exported, 1)
	})

	t.Run("handshake retry", func(t *testing.T) {
		f := newFixture()
		f.auth.Results = []th.AuthResult{
			{Err: shared.ErrAuthorizationDenied},
			{Err: shared.ErrTokenExchange},
			{Credential: "tok"},
		}
		f.prompt.Confirms = []bool{true, true, true}
		f.prompt.Selections = []string{"Jazz", OptionDone}

		require.NoError(t, f.extractor().Run(ctx))
		assert.Equal(t, 3, f.auth.Calls)
		assert.Equal(t, []string{PromptWelcome, PromptRetry, PromptRetry, PromptPlaylist, PromptNext}, f.prompt.Titles)
	})

	t.Run("declining retry exits cleanly", func(t *testing.T) {
		f := newFixture()
		f.auth.Results = []th.AuthResult{{Err: shared.ErrTimeout}}
		f.prompt.Confirms = []bool{true, false}

		require.NoError(t, f.extractor().Run(ctx))
		assert.Equal(t, 1, f.auth.Calls)
		assert.Zero(t, f.service.NetworkCalls())
	})

	t.Run("canceled context during handshake", func(t *testing.T) {
		f := newFixture()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		f.auth.Results = []th.AuthResult{{Err: context.Canceled}}
		f.prompt.Confirms = []bool{true}

		err := f.extractor().Run(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("fetch failure ends the session", func(t *testing.T) {
		f := newFixture()
		f.service.FetchErr = shared.ErrFetchFailed
		f.prompt.Confirms = []bool{true}

		err := f.extractor().Run(ctx)
		assert.ErrorIs(t, err, shared.ErrFetchFailed)
	})

	t.Run("no playlists", func(t *testing.T) {
		f := newFixture()
		f.service.PlaylistSet = nil
		f.prompt.Confirms = []bool{true}

		require.NoError(t, f.extractor().Run(ctx))
		assert.Contains(t, f.render.Messages, "You don't have any playlists yet.")
		assert.Zero(t, f.service.TrackCalls)
	})

	t.Run("aborted prompt is a user abort", func(t *testing.T) {
		f := newFixture()
		f.prompt.Err = huh.ErrUserAborted

		err := f.extractor().Run(ctx)
		assert.ErrorIs(t, err, shared.ErrUserAbort)
	})

	t.Run("progress updates", func(t *testing.T) {
		f := newFixture()
		f.prompt.Confirms = []bool{true}
		f.prompt.Selections = []string{"Jazz", OptionExport, OptionDone}

		require.NoError(t, f.extractor().Run(ctx))
		close(f.progress)

		var phases []Phase
		for u := range f.progress {
			phases = append(phases, u.Phase)
		}
		assert.Equal(t, []Phase{Authorize, FetchPlaylists, FetchTracks, ExportPlaylist}, phases)
	})
}

func TestCSVExporter(t *testing.T) {
	dir := t.TempDir()
	export := &models.PlaylistExport{
		Playlist: models.Playlist{Name: "Rock/Pop."},
		Tracks:   []models.Track{{Title: "One"}},
	}

	path, err := CSVExporter{Dir: dir}.Export(context.Background(), export)
	require.NoError(t, err)
	th.AssertFileExists(t, path)
	assert.Equal(t, "RockPop.csv", path[len(dir)+1:])

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := CSVExporter{Dir: dir}.Export(cctx, export)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "fetch_tracks", FetchTracks.String())
	assert.Equal(t, "", Phase(42).String())
}
