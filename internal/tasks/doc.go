// Package tasks orchestrates an interactive playlist extraction session.
//
// [Extractor.Run] walks through:
//
//  1. A welcome confirmation
//  2. The authorization handshake, with a "Try again?" prompt after each failure
//  3. Fetching every playlist into the [session.Session]
//  4. Selecting a playlist by name, fetching and rendering its tracks
//  5. A "what's next" menu: export to disk, pick another playlist, or finish
//
// Everything the loop touches sits behind an interface ([Prompter], [Renderer], [Exporter], [Authorizer],
// [Library], [HistoryRecorder]) so the flow can be driven by scripted doubles.
//
// # Progress Reporting
//
// Phase changes are sent as [ProgressUpdate] values on an optional channel. Sends use select with default so
// reporting never blocks the session.
package tasks
