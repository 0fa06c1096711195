// package formatter writes playlist tracks as CSV files and terminal tables
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/shared"
)

// CSVHeaders is the fixed column order of every exported file.
var CSVHeaders = []string{"Track", "Duration", "Artist", "Album", "Release-Date", "Spotify-Url"}

const unsafeFilenameChars = `/\.:*?"<>|`

// ExportToCSV converts a PlaylistExport to CSV format with columns: Track, Duration, Artist, Album, Release-Date, Spotify-Url
func ExportToCSV(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(CSVHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range export.Tracks {
		record := []string{
			track.Title,
			track.Duration(),
			track.Artist,
			track.Album,
			track.ReleaseDate,
			track.ExternalURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SanitizeFilename strips path separators, dots, characters Windows rejects and control characters from name,
// then trims surrounding whitespace. An empty result becomes "playlist".
func SanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafeFilenameChars, r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "playlist"
	}
	return cleaned
}

// CSVFilename returns the file name used for a playlist export.
func CSVFilename(playlistName string) string {
	return SanitizeFilename(playlistName) + ".csv"
}

// WriteCSVExport writes export to dir/<sanitized name>.csv, creating dir if needed, and returns the file path.
//
// An existing file with the same name is overwritten.
func WriteCSVExport(dir string, export *models.PlaylistExport) (string, error) {
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: failed to create directory: %v", shared.ErrExportFailed, err)
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return "", fmt.Errorf("%w: failed to generate CSV: %v", shared.ErrExportFailed, err)
	}

	path := filepath.Join(dir, CSVFilename(export.Playlist.Name))
	if err := os.WriteFile(path, csvData, 0644); err != nil {
		return "", fmt.Errorf("%w: failed to write CSV file: %v", shared.ErrExportFailed, err)
	}

	return path, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1DB954")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	oddRowStyle = cellStyle.Foreground(lipgloss.Color("#B3B3B3"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// RenderTracks renders the tracks of export as a bordered table for the terminal.
func RenderTracks(export *models.PlaylistExport) string {
	rows := make([][]string, 0, len(export.Tracks))
	for i, track := range export.Tracks {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			track.Title,
			track.Duration(),
			track.Artist,
			track.Album,
			track.ReleaseDate,
			track.ExternalURL,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("#", "Track", "Duration", "Artist", "Album", "Released", "Spotify URL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 1:
				return oddRowStyle
			default:
				return cellStyle
			}
		})

	title := headerStyle.Padding(0).Render(fmt.Sprintf("%s (%d tracks)", export.Playlist.Name, len(export.Tracks)))
	return title + "\n" + t.String()
}
