package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plx/internal/session"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/desertthunder/plx/internal/tasks"
	"github.com/desertthunder/plx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse authorizes, then hands the session to the full-screen playlist browser.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.spotifyService()
	if err != nil {
		return err
	}

	exportDir, err := r.config.ExportDir()
	if err != nil {
		return err
	}

	srv, handshake, err := r.startHandshake(svc)
	if err != nil {
		return err
	}
	defer srv.Close()

	sess := session.New()
	if err := r.authorize(ctx, handshake, sess); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	db, history := r.openHistory()
	if db != nil {
		defer db.Close()
	}

	model := ui.NewModel(ctx, ui.BrowseOpts{
		Session:  sess,
		Library:  svc,
		Exporter: tasks.CSVExporter{Dir: exportDir},
		History:  history,
		Logger:   fileLogger,
	})
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// authorize repeats the handshake until it succeeds or the user declines another attempt, which is
// reported as [shared.ErrUserAbort].
func (r *Runner) authorize(ctx context.Context, handshake tasks.Authorizer, sess *session.Session) error {
	renderer := ui.NewConsoleRenderer(r.output)
	for {
		credential, err := handshake.Authorize(ctx)
		if err == nil {
			sess.SetCredential(credential)
			r.writePlain("✓ Authorized with Spotify\n")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		r.logger.Warn("authorization failed", "error", err)
		renderer.Message(fmt.Sprintf("Authorization failed: %v", err))

		retry, perr := r.prompter.Confirm(ctx, tasks.PromptRetry)
		if perr != nil {
			return perr
		}
		if !retry {
			return shared.ErrUserAbort
		}
	}
}
