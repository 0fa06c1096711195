// Package repositories implements SQLite persistence for plx's history.
//
// [ExportRepository] implements [models.Repository] for [models.ExportRecord], one row per CSV file written.
// IDs are v4 UUIDs assigned on Create. List accepts the criteria keys "session_id", "playlist_name" and
// "limit" and returns the newest exports first.
package repositories
