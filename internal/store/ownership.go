package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// OwnershipStore narrows requested id sets down to the entities that exist,
// belong to the requesting owner, and are not soft-deleted. Every batch
// mutation and tag-update validation goes through it.
type OwnershipStore struct {
	db *sqlx.DB
}

func NewOwnershipStore(db *sqlx.DB) *OwnershipStore {
	return &OwnershipStore{db: db}
}

// FilterBookmarkIDs returns the subset of ids that are owned by ownerID and
// active. Order is not preserved.
func (s *OwnershipStore) FilterBookmarkIDs(ctx context.Context, ext sqlx.ExtContext, ownerID string, ids []string) ([]string, error) {
	return s.filter(ctx, ext, "bookmarks", ownerID, ids)
}

// FilterTagIDs returns the subset of ids that are owned by ownerID and active.
func (s *OwnershipStore) FilterTagIDs(ctx context.Context, ext sqlx.ExtContext, ownerID string, ids []string) ([]string, error) {
	return s.filter(ctx, ext, "tags", ownerID, ids)
}

func (s *OwnershipStore) filter(ctx context.Context, ext sqlx.ExtContext, table, ownerID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	// table is one of two fixed identifiers, never caller input.
	query, args, err := inQuery(ext, `
		SELECT id FROM `+table+`
		WHERE id IN (?) AND user_id = ? AND deleted_at IS NULL
	`, ids, ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := ext.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var valid []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		valid = append(valid, id)
	}
	return valid, rows.Err()
}
