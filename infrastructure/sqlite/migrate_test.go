package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestApplyMigrations(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "migrate-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := ApplyMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	// Re-applying must be a no-op, not an error.
	if err := ApplyMigrations(context.Background(), db); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	var count int
	if err := db.ReadSQL.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users','sessions','labs','inventory_items','import_runs','audit_logs')`,
	).Scan(&count); err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	if count != 6 {
		t.Fatalf("expected 6 tables, got %d", count)
	}
}
