package imports

import (
	"context"
	"strconv"

	"github.com/uptrace/bun"

	"labinventory/infrastructure/audit"
	"labinventory/infrastructure/sqlite"
	"labinventory/models"
)

// Store is the bun-backed persistence collaborator for import sessions.
type Store struct {
	DB    *sqlite.DB
	Audit *audit.Service
}

func NewStore(db *sqlite.DB, auditSvc *audit.Service) *Store {
	return &Store{DB: db, Audit: auditSvc}
}

// BulkImport runs build inside one write transaction and inserts every record
// it produces, all-or-nothing. The resolver handed to build creates stub labs
// and users in the same transaction, so a failed batch leaves no stubs behind
// either. An import_runs row and an audit entry are written per completed run.
func (s *Store) BulkImport(ctx context.Context, userID int64, sheetCount int, build BuildFunc) (int, error) {
	inserted := 0
	err := s.DB.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		items, err := build(ctx, newTxResolver(tx))
		if err != nil {
			return err
		}
		if len(items) > 0 {
			if _, err := tx.NewInsert().Model(&items).Exec(ctx); err != nil {
				return err
			}
		}
		inserted = len(items)

		run := &models.ImportRun{UserID: userID, SheetsCount: sheetCount, InsertedCount: inserted}
		if _, err := tx.NewInsert().Model(run).Exec(ctx); err != nil {
			return err
		}

		if s.Audit != nil {
			after := map[string]any{"sheets": sheetCount, "inserted": inserted}
			if err := s.Audit.Write(ctx, tx, userID, audit.ActionInventoryImport, audit.EntityImportRun, strconv.FormatInt(run.ID, 10), nil, after); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// txResolver resolves lab/user names within the import transaction. Per-run
// name caches make resolution idempotent: two rows naming the same new lab
// share one stub instead of racing to create two.
type txResolver struct {
	tx    bun.Tx
	labs  map[string]int64
	users map[string]int64
}

func newTxResolver(tx bun.Tx) *txResolver {
	return &txResolver{
		tx:    tx,
		labs:  make(map[string]int64),
		users: make(map[string]int64),
	}
}

func (r *txResolver) ResolveLab(ctx context.Context, name string) (int64, error) {
	if id, ok := r.labs[name]; ok {
		return id, nil
	}

	var id int64
	var count int
	if err := r.tx.NewRaw(`SELECT COUNT(1) FROM labs WHERE name = ?`, name).Scan(ctx, &count); err != nil {
		return 0, err
	}
	if count == 0 {
		if _, err := r.tx.ExecContext(ctx, `
INSERT INTO labs (name, created_at, updated_at)
VALUES (?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, name); err != nil {
			return 0, err
		}
	}
	if err := r.tx.NewRaw(`SELECT id FROM labs WHERE name = ?`, name).Scan(ctx, &id); err != nil {
		return 0, err
	}

	r.labs[name] = id
	return id, nil
}

func (r *txResolver) ResolveUser(ctx context.Context, name, role string) (int64, error) {
	key := role + "\x00" + name
	if id, ok := r.users[key]; ok {
		return id, nil
	}

	var id int64
	var count int
	if err := r.tx.NewRaw(`SELECT COUNT(1) FROM users WHERE name = ? AND role = ?`, name, role).Scan(ctx, &count); err != nil {
		return 0, err
	}
	if count == 0 {
		if _, err := r.tx.ExecContext(ctx, `
INSERT INTO users (name, role, created_at, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, name, role); err != nil {
			return 0, err
		}
	}
	if err := r.tx.NewRaw(`SELECT id FROM users WHERE name = ? AND role = ?`, name, role).Scan(ctx, &id); err != nil {
		return 0, err
	}

	r.users[key] = id
	return id, nil
}
