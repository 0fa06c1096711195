package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/shared"
)

var _ models.Repository[*models.ExportRecord] = (*ExportRepository)(nil)

// ExportRepository implements models.Repository[*models.ExportRecord] for export history.
type ExportRepository struct {
	db *sql.DB
}

// NewExportRepository creates a new ExportRepository with the given database connection
func NewExportRepository(db *sql.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

const exportColumns = "id, session_id, playlist_name, path, track_count, created_at, updated_at"

// Create inserts a new export record with a generated ID
func (r *ExportRepository) Create(record *models.ExportRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()

	query := `INSERT INTO exports (` + exportColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query,
		id,
		record.SessionID(),
		record.PlaylistName(),
		record.Path(),
		record.TrackCount(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert export: %w", err)
	}

	record.SetID(id)
	return nil
}

// Get retrieves an export record by ID
func (r *ExportRepository) Get(id string) (*models.ExportRecord, error) {
	query := `SELECT ` + exportColumns + ` FROM exports WHERE id = ?`

	record, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("export", id)
	}
	return record, err
}

// Update modifies the path, name and track count of an existing record
func (r *ExportRepository) Update(record *models.ExportRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	query := `UPDATE exports SET playlist_name = ?, path = ?, track_count = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.Exec(query, record.PlaylistName(), record.Path(), record.TrackCount(), now, record.ID())
	if err != nil {
		return fmt.Errorf("failed to update export: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound("export", record.ID())
	}

	record.SetUpdatedAt(now)
	return nil
}

// Delete removes an export record by ID. The CSV file itself is left alone.
func (r *ExportRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM exports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete export: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound("export", id)
	}
	return nil
}

// List retrieves export records matching criteria, newest first
func (r *ExportRepository) List(criteria map[string]any) ([]*models.ExportRecord, error) {
	var (
		conditions []string
		args       []any
	)

	if sessionID, ok := criteria["session_id"].(string); ok && sessionID != "" {
		conditions = append(conditions, "session_id = ?")
		args = append(args, sessionID)
	}

	if name, ok := criteria["playlist_name"].(string); ok && name != "" {
		conditions = append(conditions, "playlist_name = ?")
		args = append(args, name)
	}

	query := `SELECT ` + exportColumns + ` FROM exports` + whereClause(conditions) + ` ORDER BY created_at DESC, rowid DESC`

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	var records []*models.ExportRecord
	for rows.Next() {
		record, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// scan reads one row into a [models.ExportRecord]
func (r *ExportRepository) scan(row scanner) (*models.ExportRecord, error) {
	var (
		id, sessionID, name, path string
		trackCount                int
		createdAt, updatedAt      time.Time
	)

	err := row.Scan(&id, &sessionID, &name, &path, &trackCount, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan export: %w", err)
	}

	record := models.NewExportRecord(sessionID, name, path, trackCount)
	record.SetID(id)
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)
	return record, nil
}
