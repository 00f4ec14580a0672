// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/gdg-garage/campus-events-api/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns a migrated sqlite database backed by a file in t.TempDir().
// The pool is capped at one connection so concurrent tests interleave at the
// statement level without tripping sqlite's file lock.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(sqlite.Open(database.SQLiteDSN(path)))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
