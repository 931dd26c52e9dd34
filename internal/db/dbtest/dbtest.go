// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/USA-RedDragon/obs-remote/internal/config"
	"github.com/USA-RedDragon/obs-remote/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// New returns a migrated in-memory SQLite database private to t.
func New(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{}
	cfg.Persistence.Database.Driver = config.DatabaseDriverSQLite
	cfg.Persistence.Database.Database = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	database, err := db.MakeDB(cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return database
}
