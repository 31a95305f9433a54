package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Bookmark represents a row in the bookmarks table. A bookmark is owned
// exclusively by its user and is soft-deleted rather than physically removed:
// deleted_at unset means active.
type Bookmark struct {
	ID            string       `db:"id"`
	UserID        string       `db:"user_id"`
	Title         string       `db:"title"`
	URL           string       `db:"url"`
	Description   string       `db:"description"`
	CoverImage    string       `db:"cover_image"`
	IsPinned      bool         `db:"is_pinned"`
	IsArchived    bool         `db:"is_archived"`
	ClickCount    int64        `db:"click_count"`
	LastClickedAt sql.NullTime `db:"last_clicked_at"`
	DeletedAt     sql.NullTime `db:"deleted_at"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

// BookmarkCounts holds the cheap aggregates used by the export estimator.
type BookmarkCounts struct {
	Total  int `db:"total"`
	Pinned int `db:"pinned"`
}

// BookmarkStore is the sqlx-backed store for bookmark operations.
type BookmarkStore struct {
	db *sqlx.DB
}

func NewBookmarkStore(db *sqlx.DB) *BookmarkStore {
	return &BookmarkStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *BookmarkStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a new active bookmark for ownerID.
func (s *BookmarkStore) Create(ctx context.Context, ownerID, title, url, description string) (*Bookmark, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO bookmarks (id, user_id, title, url, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), id, ownerID, title, url, description, now, now)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id, ownerID)
}

// GetByID returns the bookmark with the given id if it belongs to ownerID.
func (s *BookmarkStore) GetByID(ctx context.Context, id, ownerID string) (*Bookmark, error) {
	var b Bookmark
	err := s.db.GetContext(ctx, &b, s.q(`
		SELECT * FROM bookmarks WHERE id = ? AND user_id = ?
	`), id, ownerID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListActiveByOwner returns all active bookmarks for ownerID, newest first.
func (s *BookmarkStore) ListActiveByOwner(ctx context.Context, ownerID string) ([]*Bookmark, error) {
	var bookmarks []*Bookmark
	err := s.db.SelectContext(ctx, &bookmarks, s.q(`
		SELECT * FROM bookmarks
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC
	`), ownerID)
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// CountsForOwner returns active and pinned bookmark counts for ownerID
// without materializing any rows.
func (s *BookmarkStore) CountsForOwner(ctx context.Context, ownerID string) (BookmarkCounts, error) {
	var counts BookmarkCounts
	err := s.db.GetContext(ctx, &counts, s.q(`
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN is_pinned = 1 THEN 1 ELSE 0 END), 0) AS pinned
		FROM bookmarks
		WHERE user_id = ? AND deleted_at IS NULL
	`), ownerID)
	return counts, err
}

// SoftDeleteBatch marks the owned, active subset of ids as deleted and clears
// their click statistics. Returns the number of rows actually changed.
func (s *BookmarkStore) SoftDeleteBatch(ctx context.Context, ext sqlx.ExtContext, ownerID string, ids []string) (int64, error) {
	now := time.Now().UTC()
	query, args, err := inQuery(ext, `
		UPDATE bookmarks
		SET deleted_at = ?, click_count = 0, last_clicked_at = NULL
		WHERE id IN (?) AND user_id = ? AND deleted_at IS NULL
	`, now, ids, ownerID)
	if err != nil {
		return 0, err
	}
	res, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetPinnedBatch sets is_pinned on the owned, active subset of ids and
// touches updated_at. Returns the number of rows actually changed.
func (s *BookmarkStore) SetPinnedBatch(ctx context.Context, ext sqlx.ExtContext, ownerID string, ids []string, pinned bool) (int64, error) {
	return s.setFlagBatch(ctx, ext, "is_pinned", pinned, ownerID, ids)
}

// SetArchivedBatch sets is_archived on the owned, active subset of ids and
// touches updated_at. Returns the number of rows actually changed.
func (s *BookmarkStore) SetArchivedBatch(ctx context.Context, ext sqlx.ExtContext, ownerID string, ids []string, archived bool) (int64, error) {
	return s.setFlagBatch(ctx, ext, "is_archived", archived, ownerID, ids)
}

func (s *BookmarkStore) setFlagBatch(ctx context.Context, ext sqlx.ExtContext, column string, value bool, ownerID string, ids []string) (int64, error) {
	now := time.Now().UTC()
	flag := 0
	if value {
		flag = 1
	}
	// column is one of two fixed identifiers, never caller input.
	query, args, err := inQuery(ext, `
		UPDATE bookmarks
		SET `+column+` = ?, updated_at = ?
		WHERE id IN (?) AND user_id = ? AND deleted_at IS NULL
	`, flag, now, ids, ownerID)
	if err != nil {
		return 0, err
	}
	res, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// TouchBatch bumps updated_at on the given owned bookmarks.
func (s *BookmarkStore) TouchBatch(ctx context.Context, ext sqlx.ExtContext, ownerID string, ids []string) error {
	now := time.Now().UTC()
	query, args, err := inQuery(ext, `
		UPDATE bookmarks SET updated_at = ? WHERE id IN (?) AND user_id = ?
	`, now, ids, ownerID)
	if err != nil {
		return err
	}
	_, err = ext.ExecContext(ctx, query, args...)
	return err
}
