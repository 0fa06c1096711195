package tasks

import (
	"context"

	"github.com/desertthunder/plx/internal/formatter"
	"github.com/desertthunder/plx/internal/models"
)

// CSVExporter writes playlists as CSV files into Dir.
type CSVExporter struct {
	Dir string
}

// Export writes export to Dir/<sanitized name>.csv.
func (c CSVExporter) Export(ctx context.Context, export *models.PlaylistExport) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return formatter.WriteCSVExport(c.Dir, export)
}
