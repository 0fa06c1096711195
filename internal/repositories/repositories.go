package repositories

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no row matches the requested ID.
var ErrNotFound = errors.New("record not found")

// scanner is implemented by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// whereClause joins conditions with AND, returning "" when there are none.
func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}
