package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Tag represents a row in the tags table. usage_count is a cached derived
// value: it must always be recomputable as the number of active associations
// referencing this tag for this owner.
type Tag struct {
	ID         string       `db:"id"`
	UserID     string       `db:"user_id"`
	Name       string       `db:"name"`
	Color      string       `db:"color"`
	UsageCount int          `db:"usage_count"`
	DeletedAt  sql.NullTime `db:"deleted_at"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

// TaggedName is one bookmark-tag association row joined with the tag's name.
type TaggedName struct {
	BookmarkID string `db:"bookmark_id"`
	TagID      string `db:"tag_id"`
	TagName    string `db:"tag_name"`
}

// TagStore is the sqlx-backed store for tag and association operations.
type TagStore struct {
	db *sqlx.DB
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *TagStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a new active tag for ownerID.
func (s *TagStore) Create(ctx context.Context, ownerID, name, color string) (*Tag, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO tags (id, user_id, name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), id, ownerID, name, color, now, now)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id, ownerID)
}

// GetByID returns the tag with the given id if it belongs to ownerID.
func (s *TagStore) GetByID(ctx context.Context, id, ownerID string) (*Tag, error) {
	var t Tag
	err := s.db.GetContext(ctx, &t, s.q(`
		SELECT * FROM tags WHERE id = ? AND user_id = ?
	`), id, ownerID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListActiveByOwner returns all active tags for ownerID ordered by name.
func (s *TagStore) ListActiveByOwner(ctx context.Context, ownerID string) ([]*Tag, error) {
	var tags []*Tag
	err := s.db.SelectContext(ctx, &tags, s.q(`
		SELECT * FROM tags
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY name ASC
	`), ownerID)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// CountActiveByOwner returns the number of active tags for ownerID.
func (s *TagStore) CountActiveByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, s.q(`
		SELECT COUNT(*) FROM tags WHERE user_id = ? AND deleted_at IS NULL
	`), ownerID)
	return count, err
}

// ListAssociations returns every bookmark-tag association for ownerID joined
// with the tag's name, for export assembly.
func (s *TagStore) ListAssociations(ctx context.Context, ownerID string) ([]TaggedName, error) {
	var rows []TaggedName
	err := s.db.SelectContext(ctx, &rows, s.q(`
		SELECT bt.bookmark_id, bt.tag_id, t.name AS tag_name
		FROM bookmark_tags bt
		JOIN tags t ON bt.tag_id = t.id
		WHERE bt.user_id = ?
	`), ownerID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AddAssociation inserts a bookmark-tag association. Adding an association
// that already exists is a no-op, not an error. The insert-if-absent form is
// native per driver so a duplicate never surfaces as a statement error (which
// would poison an enclosing postgres transaction).
func (s *TagStore) AddAssociation(ctx context.Context, ext sqlx.ExtContext, bookmarkID, tagID, ownerID string) error {
	var query string
	switch ext.DriverName() {
	case "sqlite", "sqlite3":
		query = `INSERT OR IGNORE INTO bookmark_tags (bookmark_id, tag_id, user_id, created_at) VALUES (?, ?, ?, ?)`
	case "mysql":
		query = `INSERT IGNORE INTO bookmark_tags (bookmark_id, tag_id, user_id, created_at) VALUES (?, ?, ?, ?)`
	default:
		query = `INSERT INTO bookmark_tags (bookmark_id, tag_id, user_id, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (bookmark_id, tag_id) DO NOTHING`
	}
	now := time.Now().UTC()
	_, err := ext.ExecContext(ctx, ext.Rebind(query), bookmarkID, tagID, ownerID, now)
	if isUniqueConstraintError(err) {
		return nil
	}
	return err
}

// RemoveAssociations deletes all associations matching bookmarkIDs x tagIDs
// for ownerID in one bulk statement.
func (s *TagStore) RemoveAssociations(ctx context.Context, ext sqlx.ExtContext, ownerID string, bookmarkIDs, tagIDs []string) error {
	query, args, err := inQuery(ext, `
		DELETE FROM bookmark_tags
		WHERE bookmark_id IN (?) AND tag_id IN (?) AND user_id = ?
	`, bookmarkIDs, tagIDs, ownerID)
	if err != nil {
		return err
	}
	_, err = ext.ExecContext(ctx, query, args...)
	return err
}

// RecomputeUsageCount sets the tag's usage_count to the exact count of its
// associations whose bookmark is still active. A full recompute rather than
// an increment: re-running it converges to the correct value regardless of
// what concurrent writers or a crashed batch left behind.
func (s *TagStore) RecomputeUsageCount(ctx context.Context, ext sqlx.ExtContext, tagID, ownerID string) error {
	_, err := ext.ExecContext(ctx, ext.Rebind(`
		UPDATE tags
		SET usage_count = (
			SELECT COUNT(*)
			FROM bookmark_tags bt
			JOIN bookmarks b ON b.id = bt.bookmark_id
			WHERE bt.tag_id = ? AND bt.user_id = ? AND b.deleted_at IS NULL
		)
		WHERE id = ? AND user_id = ?
	`), tagID, ownerID, tagID, ownerID)
	return err
}
