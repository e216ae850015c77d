// Package testdb opens migrated in-memory sqlite databases for tests.
package testdb

import (
	"context"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/agro_shop/internal/db"
)

// New opens an in-memory database through db.Open, so tests run with the
// production gorm settings, and migrates every table.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, "sqlite::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })

	// constraint violations are expected in tests
	gdb.Logger = logger.Discard

	if err := db.Migrate(ctx, gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}
