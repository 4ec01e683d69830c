package repositories

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// pq error codes relevant to natural-key enforcement.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func checkRowsAffected(result sql.Result, notFoundErr error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundErr
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-constraint violation,
// optionally on a specific constraint.
func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != pqUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func isForeignKeyViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == pqForeignKeyViolation
}
