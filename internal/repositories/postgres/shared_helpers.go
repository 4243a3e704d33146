package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// handleDBError wraps a database error with the failing operation while
// keeping gorm.ErrRecordNotFound recognizable for IsNotFoundError
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}

// getDB returns the transaction handle when one is supplied
func getDB(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// applyPagination applies limit/offset when set
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
