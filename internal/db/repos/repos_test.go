package repos

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/slidesmith/slidesmith/internal/db"
)

const (
	testOwner      = "user-1"
	testOtherOwner = "user-2"
)

// setupTestDB creates a migrated per-test database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbFile := filepath.Join(t.TempDir(), "test.db")
	gormDB, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, db.Migrate(gormDB), "failed to migrate test database")

	t.Cleanup(func() {
		sqlDB, err := gormDB.DB()
		if err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}
