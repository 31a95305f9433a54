package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Audit event types written by the batch engine.
const (
	EventBatchDeleteBookmarks = "batch_delete_bookmarks"
	EventBatchUpdateTags      = "batch_update_tags"
)

// AuditStore appends immutable records describing destructive or
// bulk-mutating actions. Entries are append-only; nothing in the server ever
// reads them back.
type AuditStore struct {
	db *sqlx.DB
}

func NewAuditStore(db *sqlx.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Record appends one audit entry for ownerID. payload is marshaled to JSON.
func (s *AuditStore) Record(ctx context.Context, ext sqlx.ExtContext, ownerID, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	_, err = ext.ExecContext(ctx, ext.Rebind(`
		INSERT INTO audit_logs (id, user_id, event_type, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), uuid.New().String(), ownerID, eventType, string(body), time.Now().UTC())
	return err
}
