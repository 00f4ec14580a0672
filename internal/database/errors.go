package database

import (
	"context"
	"errors"
	"time"

	"github.com/gdg-garage/campus-events-api/internal/apperr"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

const pqUniqueViolation = "23505"

// WithTimeout bounds a single storage call. A zero d leaves ctx untouched.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// IsUniqueViolation reports whether err was caused by a unique constraint.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// Translate classifies a storage error. what names the record for messages.
func Translate(err error, what string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("%s not found", what)
	case IsUniqueViolation(err):
		return apperr.Conflict("%s already exists", what)
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Unavailable(err, "storage timed out")
	case errors.Is(err, context.Canceled):
		return apperr.Unavailable(err, "request cancelled")
	default:
		return apperr.Internal(err, "storage failure")
	}
}
