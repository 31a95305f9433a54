package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// User represents a row in the users table.
type User struct {
	ID        string         `db:"id"`
	Email     sql.NullString `db:"email"`
	Username  string         `db:"username"`
	CreatedAt time.Time      `db:"created_at"`
}

// UserStore is the sqlx-backed store for user lookups.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a new user row.
func (s *UserStore) Create(ctx context.Context, email, username string) (*User, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, email, username, created_at) VALUES (?, ?, ?, ?)
	`), id, email, username, now)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the user with the given id. The well-known default-user
// identity is answered with a synthetic record without touching storage; any
// other miss is ErrUserNotFound.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	if id == DefaultUserID {
		return &User{
			ID:        DefaultUserID,
			Email:     sql.NullString{String: "default@tmarks.local", Valid: true},
			Username:  "Default User",
			CreatedAt: time.Now().UTC(),
		}, nil
	}

	var u User
	err := s.db.GetContext(ctx, &u, s.q(`
		SELECT id, email, username, created_at FROM users WHERE id = ?
	`), id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
