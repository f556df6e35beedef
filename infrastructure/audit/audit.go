package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"

	"labinventory/models"
)

// Audited actions and the entity types they attach to.
const (
	ActionInventoryImport = "inventory.import"

	EntityImportRun = "import_runs"
)

// Service writes audit records inside the caller transaction, so an aborted
// operation leaves no audit trail behind.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Write(ctx context.Context, tx bun.Tx, userID int64, action, entityType, entityID string, before, after any) error {
	beforeJSON, err := marshal(before)
	if err != nil {
		return fmt.Errorf("marshal audit before state: %w", err)
	}
	afterJSON, err := marshal(after)
	if err != nil {
		return fmt.Errorf("marshal audit after state: %w", err)
	}
	log := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		BeforeJSON: beforeJSON,
		AfterJSON:  afterJSON,
	}
	_, err = tx.NewInsert().Model(log).Exec(ctx)
	return err
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
