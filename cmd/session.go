package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/desertthunder/plx/internal/repositories"
	"github.com/desertthunder/plx/internal/session"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/desertthunder/plx/internal/tasks"
	"github.com/desertthunder/plx/internal/ui"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

// Interactive runs the prompt-driven extractor session against the callback listener.
func (r *Runner) Interactive(ctx context.Context, cmd *cli.Command) error {
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

	db, history := r.openHistory()
	if db != nil {
		defer db.Close()
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug("progress", "phase", update.Phase, "message", update.Message)
		}
	}()

	var library tasks.Library = svc
	if r.interactiveTerminal() {
		library = ui.WithSpinner(svc)
	}

	renderer := ui.NewConsoleRenderer(r.output)
	renderer.Welcome(version)

	extractor := tasks.NewExtractor(tasks.ExtractorOpts{
		Session:    session.New(),
		Authorizer: handshake,
		Library:    library,
		Prompter:   r.prompter,
		Renderer:   renderer,
		Exporter:   tasks.CSVExporter{Dir: exportDir},
		History:    history,
		Progress:   progress,
		Logger:     shared.WithLogger(r.logger, "component", "extractor"),
	})

	err = extractor.Run(ctx)
	close(progress)
	<-done
	return err
}

// openHistory opens the export history. Exports still work without it, so failures only warn.
func (r *Runner) openHistory() (*sql.DB, tasks.HistoryRecorder) {
	db, err := shared.OpenHistory(r.config)
	if err != nil {
		r.logger.Warn("export history unavailable", "error", err)
		return nil, nil
	}
	return db, repositories.NewExportRepository(db)
}

func (r *Runner) interactiveTerminal() bool {
	f, ok := r.output.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
