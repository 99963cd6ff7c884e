// Package dbtest opens throwaway SQLite databases for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jinzhu/gorm"
	"github.com/radhian/ledger-engine/config"
	"github.com/radhian/ledger-engine/infra/db"
)

// Open creates a migrated SQLite database in a temp dir that is closed when
// the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := db.Open(config.DatabaseConfig{
		Driver: "sqlite3",
		Path:   filepath.Join(t.TempDir(), "ledger-test.db"),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return conn
}
