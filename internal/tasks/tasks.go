// package tasks runs the interactive extract session.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/session"
	"github.com/desertthunder/plx/internal/shared"
)

// Prompt titles and menu options shown by [Extractor].
const (
	PromptWelcome  = "Ready to pull your playlists from Spotify?"
	PromptRetry    = "Try again?"
	PromptPlaylist = "Which playlist do you want to see?"
	PromptNext     = "What's next?"

	OptionExport  = "Export this playlist to disk"
	OptionAnother = "Let's look at another playlist"
	OptionDone    = "Thanks, I'm done"
)

// Prompter asks the user questions.
type Prompter interface {
	Confirm(ctx context.Context, title string) (bool, error)
	Select(ctx context.Context, title string, options []string) (string, error)
}

// Renderer displays messages and track listings.
type Renderer interface {
	Message(msg string)
	Tracks(export *models.PlaylistExport)
}

// Exporter persists a playlist and returns where it went.
type Exporter interface {
	Export(ctx context.Context, export *models.PlaylistExport) (string, error)
}

// Authorizer runs one authorization attempt and returns the access credential.
type Authorizer interface {
	Authorize(ctx context.Context) (string, error)
}

// Library reads playlists and their tracks with an access credential.
type Library interface {
	Playlists(ctx context.Context, credential string) ([]models.Playlist, error)
	Tracks(ctx context.Context, credential string, playlist models.Playlist) ([]models.Track, error)
}

// HistoryRecorder stores a record of every export. [repositories.ExportRepository] implements it.
type HistoryRecorder interface {
	Create(record *models.ExportRecord) error
}

// ExtractorOpts contains the collaborators of an [Extractor]. History and Progress are optional.
type ExtractorOpts struct {
	Session    *session.Session
	Authorizer Authorizer
	Library    Library
	Prompter   Prompter
	Renderer   Renderer
	Exporter   Exporter
	History    HistoryRecorder
	Progress   chan<- ProgressUpdate
	Logger     *log.Logger
}

// Extractor drives an interactive session: authorize, pick a playlist, show its tracks, export or move on.
type Extractor struct {
	session  *session.Session
	auth     Authorizer
	library  Library
	prompt   Prompter
	render   Renderer
	exporter Exporter
	history  HistoryRecorder
	progress chan<- ProgressUpdate
	logger   *log.Logger
}

// NewExtractor creates a new [Extractor]. A nil Session starts a fresh one.
func NewExtractor(opts ExtractorOpts) *Extractor {
	e := &Extractor{
		session:  opts.Session,
		auth:     opts.Authorizer,
		library:  opts.Library,
		prompt:   opts.Prompter,
		render:   opts.Renderer,
		exporter: opts.Exporter,
		history:  opts.History,
		progress: opts.Progress,
		logger:   opts.Logger,
	}
	if e.session == nil {
		e.session = session.New()
	}
	if e.logger == nil {
		e.logger = shared.NewLogger(nil)
	}
	return e
}

// Session returns the session this extractor populates.
func (e *Extractor) Session() *session.Session {
	return e.session
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Extractor) sendProgress(update ProgressUpdate) {
	if e.progress == nil {
		return
	}
	select {
	case e.progress <- update:
	default:
	}
}

// Run executes the session until the user is done.
//
// Declining the welcome prompt, declining a retry, or choosing [OptionDone] returns nil. A prompt interrupted by
// the user returns [shared.ErrUserAbort]. Fetch failures end the session with an error.
func (e *Extractor) Run(ctx context.Context) error {
	ready, err := e.prompt.Confirm(ctx, PromptWelcome)
	if err != nil {
		return promptErr(err)
	}
	if !ready {
		e.render.Message("Maybe next time.")
		return nil
	}

	authorized, err := e.authorize(ctx)
	if err != nil || !authorized {
		return err
	}

	playlists, err := e.library.Playlists(ctx, e.session.Credential())
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}
	e.session.SetPlaylists(playlists)
	e.sendProgress(playlistsUpdate(playlists))
	e.logger.Info("playlists fetched", "count", len(playlists))

	if len(playlists) == 0 {
		e.render.Message("You don't have any playlists yet.")
		return nil
	}

	for {
		export, err := e.showPlaylist(ctx)
		if err != nil {
			return err
		}

		another, err := e.menu(ctx, export)
		if err != nil {
			return err
		}
		if !another {
			e.render.Message("Enjoy the music!")
			return nil
		}
	}
}

// authorize runs the handshake until it succeeds or the user stops retrying.
func (e *Extractor) authorize(ctx context.Context) (bool, error) {
	for attempt := 1; ; attempt++ {
		e.sendProgress(authorizeUpdate(attempt))

		credential, err := e.auth.Authorize(ctx)
		if err == nil {
			e.session.SetCredential(credential)
			e.logger.Debug("authorized", "attempt", attempt)
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		e.logger.Warn("authorization failed", "attempt", attempt, "error", err)
		e.render.Message(fmt.Sprintf("Authorization failed: %v", err))

		retry, perr := e.prompt.Confirm(ctx, PromptRetry)
		if perr != nil {
			return false, promptErr(perr)
		}
		if !retry {
			e.render.Message("Okay, come back when you're ready.")
			return false, nil
		}
	}
}

// showPlaylist asks for a playlist, fetches its tracks and renders them.
func (e *Extractor) showPlaylist(ctx context.Context) (*models.PlaylistExport, error) {
	name, err := e.prompt.Select(ctx, PromptPlaylist, e.session.PlaylistNames())
	if err != nil {
		return nil, promptErr(err)
	}

	playlist, ok := e.session.FindPlaylist(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, name)
	}

	tracks, err := e.library.Tracks(ctx, e.session.Credential(), playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracks for '%s': %w", playlist.Name, err)
	}

	export := &models.PlaylistExport{Playlist: playlist, Tracks: tracks}
	e.sendProgress(tracksUpdate(export))
	e.render.Tracks(export)
	return export, nil
}

// menu offers the next steps for export and reports whether the user wants another playlist.
//
// Once the playlist has been exported the export option is no longer offered.
func (e *Extractor) menu(ctx context.Context, export *models.PlaylistExport) (bool, error) {
	exported := false
	for {
		options := []string{OptionExport, OptionAnother, OptionDone}
		if exported {
			options = options[1:]
		}

		choice, err := e.prompt.Select(ctx, PromptNext, options)
		if err != nil {
			return false, promptErr(err)
		}

		switch choice {
		case OptionExport:
			if e.export(ctx, export) {
				exported = true
			}
		case OptionAnother:
			return true, nil
		default:
			return false, nil
		}
	}
}

// export writes the playlist and records it; failures are reported and leave the option available.
func (e *Extractor) export(ctx context.Context, export *models.PlaylistExport) bool {
	path, err := e.exporter.Export(ctx, export)
	if err != nil {
		e.logger.Error("export failed", "playlist", export.Playlist.Name, "error", err)
		e.render.Message(fmt.Sprintf("Could not export '%s': %v", export.Playlist.Name, err))
		return false
	}

	e.sendProgress(exportUpdate(path))
	e.render.Message(fmt.Sprintf("Saved %d tracks to %s", len(export.Tracks), path))

	if e.history != nil {
		record := models.NewExportRecord(e.session.ID(), export.Playlist.Name, path, len(export.Tracks))
		if err := e.history.Create(record); err != nil {
			e.logger.Warn("failed to record export", "path", path, "error", err)
		}
	}
	return true
}

// promptErr maps an interrupted prompt to [shared.ErrUserAbort].
func promptErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, shared.ErrUserAbort) {
		return shared.ErrUserAbort
	}
	return fmt.Errorf("prompt failed: %w", err)
}
