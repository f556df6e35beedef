package imports

import (
	"context"
	"path/filepath"
	"testing"

	"labinventory/infrastructure/audit"
	"labinventory/infrastructure/sqlite"
	"labinventory/models"
)

func openImportTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "imports-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func countRows(t *testing.T, db *sqlite.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.R.NewRaw(query, args...).Scan(context.Background(), &n); err != nil {
		t.Fatalf("count query: %v", err)
	}
	return n
}

// seedImporter inserts the user on whose behalf test imports run; foreign
// keys on import_runs and audit_logs need a real principal.
func seedImporter(t *testing.T, db *sqlite.DB) int64 {
	t.Helper()
	res, err := db.WriteSQL.ExecContext(context.Background(),
		`INSERT INTO users (name, username, role) VALUES ('Admin', 'admin', 'admin')`)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed user id: %v", err)
	}
	return id
}

func TestBulkImportCreatesOneStubPerName(t *testing.T) {
	db := openImportTestDB(t)
	store := NewStore(db, audit.NewService())
	ctx := context.Background()
	importer := seedImporter(t, db)

	inserted, err := store.BulkImport(ctx, importer, 1, func(ctx context.Context, r EntityResolver) ([]*models.InventoryItem, error) {
		var items []*models.InventoryItem
		for _, name := range []string{"Oscilloscope", "Multimeter"} {
			labID, err := r.ResolveLab(ctx, "Optics Lab")
			if err != nil {
				return nil, err
			}
			inchargeID, err := r.ResolveUser(ctx, "Dr. Rao", models.RoleFaculty)
			if err != nil {
				return nil, err
			}
			items = append(items, &models.InventoryItem{
				ItemCategory:  "Equipment",
				ItemName:      name,
				LabID:         labID,
				LabInchargeID: &inchargeID,
				EquipmentID:   "EEE-" + name,
			})
		}
		return items, nil
	})
	if err != nil {
		t.Fatalf("bulk import: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("inserted = %d, want 2", inserted)
	}

	if n := countRows(t, db, `SELECT COUNT(1) FROM labs WHERE name = ?`, "Optics Lab"); n != 1 {
		t.Fatalf("lab stubs = %d, want exactly 1", n)
	}
	if n := countRows(t, db, `SELECT COUNT(1) FROM users WHERE name = ? AND role = ?`, "Dr. Rao", models.RoleFaculty); n != 1 {
		t.Fatalf("user stubs = %d, want exactly 1", n)
	}
	if n := countRows(t, db, `SELECT COUNT(1) FROM inventory_items`); n != 2 {
		t.Fatalf("items = %d, want 2", n)
	}
	if n := countRows(t, db, `SELECT COUNT(1) FROM import_runs WHERE inserted_count = 2 AND sheets_count = 1`); n != 1 {
		t.Fatalf("expected one matching import_runs row, got %d", n)
	}
	if n := countRows(t, db, `SELECT COUNT(1) FROM audit_logs WHERE action = 'inventory.import'`); n != 1 {
		t.Fatalf("expected one audit entry, got %d", n)
	}
}

func TestBulkImportStubResolutionIsCaseSensitive(t *testing.T) {
	db := openImportTestDB(t)
	store := NewStore(db, nil)
	ctx := context.Background()
	importer := seedImporter(t, db)

	if _, err := db.WriteSQL.ExecContext(ctx,
		`INSERT INTO labs (name) VALUES (?)`, "optics lab"); err != nil {
		t.Fatalf("seed lab: %v", err)
	}

	_, err := store.BulkImport(ctx, importer, 1, func(ctx context.Context, r EntityResolver) ([]*models.InventoryItem, error) {
		labID, err := r.ResolveLab(ctx, "Optics Lab")
		if err != nil {
			return nil, err
		}
		return []*models.InventoryItem{{
			ItemCategory: "Equipment",
			ItemName:     "Laser",
			LabID:        labID,
			EquipmentID:  "EEE-LSR-001",
		}}, nil
	})
	if err != nil {
		t.Fatalf("bulk import: %v", err)
	}

	// The differently-cased name is a different lab.
	if n := countRows(t, db, `SELECT COUNT(1) FROM labs`); n != 2 {
		t.Fatalf("labs = %d, want 2 (case-sensitive match)", n)
	}
}

func TestBulkImportIsAllOrNothing(t *testing.T) {
	db := openImportTestDB(t)
	store := NewStore(db, audit.NewService())
	ctx := context.Background()
	importer := seedImporter(t, db)

	_, err := store.BulkImport(ctx, importer, 1, func(ctx context.Context, r EntityResolver) ([]*models.InventoryItem, error) {
		labID, err := r.ResolveLab(ctx, "Networks Lab")
		if err != nil {
			return nil, err
		}
		// Two rows with the same real equipment ID violate the unique index.
		return []*models.InventoryItem{
			{ItemCategory: "Equipment", ItemName: "Router A", LabID: labID, EquipmentID: "EEE-RTR-001"},
			{ItemCategory: "Equipment", ItemName: "Router B", LabID: labID, EquipmentID: "EEE-RTR-001"},
		}, nil
	})
	if err == nil {
		t.Fatalf("expected a constraint violation")
	}

	if n := countRows(t, db, `SELECT COUNT(1) FROM inventory_items`); n != 0 {
		t.Fatalf("items = %d, want 0 after rollback", n)
	}
	if n := countRows(t, db, `SELECT COUNT(1) FROM labs`); n != 0 {
		t.Fatalf("lab stubs = %d, want 0 after rollback", n)
	}
	if n := countRows(t, db, `SELECT COUNT(1) FROM import_runs`); n != 0 {
		t.Fatalf("import_runs = %d, want 0 after rollback", n)
	}
}

func TestBulkImportPlaceholderEquipmentIDMayRepeat(t *testing.T) {
	db := openImportTestDB(t)
	store := NewStore(db, nil)
	ctx := context.Background()
	importer := seedImporter(t, db)

	inserted, err := store.BulkImport(ctx, importer, 1, func(ctx context.Context, r EntityResolver) ([]*models.InventoryItem, error) {
		labID, err := r.ResolveLab(ctx, "Stores")
		if err != nil {
			return nil, err
		}
		return []*models.InventoryItem{
			{ItemCategory: "Furniture", ItemName: "Workbench", LabID: labID, EquipmentID: placeholderEquipmentID},
			{ItemCategory: "Furniture", ItemName: "Stool", LabID: labID, EquipmentID: placeholderEquipmentID},
		}, nil
	})
	if err != nil {
		t.Fatalf("placeholder IDs must not collide: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("inserted = %d, want 2", inserted)
	}
}
