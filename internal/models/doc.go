// Package models defines the domain entities and persistence interfaces for plx.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs built from Spotify Web API pages
//   - [Playlist] : Playlist name plus the href used to page through its tracks
//   - [Track] : Track metadata shown in the terminal and written to CSV
//   - [PlaylistExport] : Playlist with its complete track listing
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [ExportRecord] : One CSV export written during a session
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
