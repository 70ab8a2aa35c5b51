package utils

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err came from a unique index on either backend.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}

// ViolatesIndex narrows IsUniqueViolation to one named index. SQLite reports
// columns instead of index names, so the column list is matched too.
func ViolatesIndex(err error, index string, columns ...string) bool {
	if !IsUniqueViolation(err) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName == index
	}

	msg := err.Error()
	if strings.Contains(msg, index) {
		return true
	}
	for _, col := range columns {
		if !strings.Contains(msg, col) {
			return false
		}
	}
	return len(columns) > 0
}
