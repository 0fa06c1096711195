package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/repositories"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

type historyEntry struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Playlist   string    `json:"playlist"`
	Path       string    `json:"path"`
	Tracks     int       `json:"tracks"`
	ExportedAt time.Time `json:"exported_at"`
}

func toHistoryEntry(record *models.ExportRecord, _ int) historyEntry {
	return historyEntry{
		ID:         record.ID(),
		SessionID:  record.SessionID(),
		Playlist:   record.PlaylistName(),
		Path:       record.Path(),
		Tracks:     record.TrackCount(),
		ExportedAt: record.CreatedAt(),
	}
}

// History lists previous exports, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.OpenHistory(r.config)
	if err != nil {
		return fmt.Errorf("failed to open export history: %w", err)
	}
	defer db.Close()

	repo := repositories.NewExportRepository(db)

	if cmd.Bool("prune") {
		pruned, err := r.pruneHistory(repo)
		if err != nil {
			return err
		}
		r.logger.Info("pruned export history", "removed", pruned)
	}

	records, err := repo.List(map[string]any{
		"playlist_name": cmd.String("playlist"),
		"limit":         cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(lo.Map(records, toHistoryEntry), cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		return r.writePlain("No exports yet. Run plx to export a playlist.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Export history (%d)", len(records)))
	for _, record := range records {
		r.writePlain("%s  %-30s %5d tracks  %s\n",
			record.CreatedAt().Local().Format("2006-01-02 15:04"),
			record.PlaylistName(), record.TrackCount(), record.Path())
	}
	return nil
}

// pruneHistory deletes records whose CSV file is gone and returns how many were removed.
func (r *Runner) pruneHistory(repo *repositories.ExportRepository) (int, error) {
	records, err := repo.List(map[string]any{})
	if err != nil {
		return 0, err
	}

	missing := lo.Filter(records, func(record *models.ExportRecord, _ int) bool {
		_, err := os.Stat(record.Path())
		return errors.Is(err, fs.ErrNotExist)
	})

	for _, record := range missing {
		if err := repo.Delete(record.ID()); err != nil {
			return 0, fmt.Errorf("failed to prune %s: %w", record.ID(), err)
		}
		r.logger.Debug("pruned export", "id", record.ID(), "path", record.Path())
	}
	return len(missing), nil
}
