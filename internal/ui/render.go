package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/plx/internal/formatter"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/tasks"
)

var _ tasks.Renderer = (*ConsoleRenderer)(nil)

// ConsoleRenderer writes messages and track tables to a terminal.
type ConsoleRenderer struct {
	w io.Writer
}

// NewConsoleRenderer creates a [ConsoleRenderer]. The writer defaults to [os.Stdout].
func NewConsoleRenderer(w io.Writer) *ConsoleRenderer {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleRenderer{w: w}
}

func (r *ConsoleRenderer) Message(msg string) {
	fmt.Fprintln(r.w, styles.Success("→ ")+msg)
}

func (r *ConsoleRenderer) Tracks(export *models.PlaylistExport) {
	if len(export.Tracks) == 0 {
		fmt.Fprintln(r.w, styles.Warn(fmt.Sprintf("'%s' has no tracks.", export.Playlist.Name)))
		return
	}
	fmt.Fprintln(r.w, formatter.RenderTracks(export))
}

// Welcome prints the banner shown before the first prompt.
func (r *ConsoleRenderer) Welcome(version string) {
	fmt.Fprintln(r.w, styles.Title("plx "+version))
	fmt.Fprintln(r.w, styles.Help("Browse and export your Spotify playlists."))
}
