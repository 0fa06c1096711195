// Package ui holds the terminal front ends of plx.
//
// The interactive session uses [Prompter] (huh confirm and select forms), [ConsoleRenderer] (lipgloss track tables)
// and [SpinningLibrary], which shows a huh spinner while playlists and tracks are fetched.
//
// The browse command runs the bubbletea [Model]:
//  1. [PlaylistListView] : Browse and filter playlists
//  2. [TrackListView] : Inspect a playlist's tracks and press e to export them as CSV
//
// The Model implements bubbletea/Elm's Init/Update/View pattern, receiving fetch and export results via the Msg union type.
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, e, q) with contextual help from charmbracelet/bubbles/help.
package ui
