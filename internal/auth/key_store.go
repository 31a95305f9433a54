package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tmarks/tmarks/internal/store"
)

// KeyPrefix is prepended to every plaintext API key so keys are recognizable
// in config files and logs.
const KeyPrefix = "tm_"

// APIKeyRecord represents a row in the api_keys table. Only the SHA-256 hash
// of a key is ever stored.
type APIKeyRecord struct {
	ID         string       `db:"id"`
	UserID     string       `db:"user_id"`
	Name       string       `db:"name"`
	KeyHash    string       `db:"key_hash"`
	LastUsedAt sql.NullTime `db:"last_used_at"`
	ExpiresAt  sql.NullTime `db:"expires_at"`
	CreatedAt  time.Time    `db:"created_at"`
	RevokedAt  sql.NullTime `db:"revoked_at"`
}

// KeyStore defines operations for API key management.
type KeyStore interface {
	Create(ctx context.Context, userID, name, keyHash string, expiresAt *time.Time) (*APIKeyRecord, error)
	GetByHash(ctx context.Context, hash string) (*APIKeyRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*APIKeyRecord, error)
	Revoke(ctx context.Context, id, userID string) error
	UpdateLastUsed(ctx context.Context, id string) error
}

// SQLKeyStore is the sqlx-backed implementation of KeyStore.
type SQLKeyStore struct {
	db *sqlx.DB
}

func NewSQLKeyStore(db *sqlx.DB) *SQLKeyStore {
	return &SQLKeyStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *SQLKeyStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a new API key record.
func (s *SQLKeyStore) Create(ctx context.Context, userID, name, keyHash string, expiresAt *time.Time) (*APIKeyRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	var exp sql.NullTime
	if expiresAt != nil {
		exp = sql.NullTime{Time: *expiresAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO api_keys (id, user_id, name, key_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), id, userID, name, keyHash, exp, now)
	if err != nil {
		return nil, err
	}

	var rec APIKeyRecord
	err = s.db.GetContext(ctx, &rec, s.q(`SELECT * FROM api_keys WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByHash returns the key record matching the given hash, or store.ErrNotFound.
func (s *SQLKeyStore) GetByHash(ctx context.Context, hash string) (*APIKeyRecord, error) {
	var rec APIKeyRecord
	err := s.db.GetContext(ctx, &rec, s.q(`SELECT * FROM api_keys WHERE key_hash = ?`), hash)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByUser returns all key records for userID, newest first.
func (s *SQLKeyStore) ListByUser(ctx context.Context, userID string) ([]*APIKeyRecord, error) {
	var recs []*APIKeyRecord
	err := s.db.SelectContext(ctx, &recs, s.q(`
		SELECT * FROM api_keys WHERE user_id = ? ORDER BY created_at DESC
	`), userID)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// Revoke marks the key revoked if it belongs to userID. Returns
// store.ErrNotFound when no row matches.
func (s *SQLKeyStore) Revoke(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE api_keys SET revoked_at = ? WHERE id = ? AND user_id = ? AND revoked_at IS NULL
	`), time.Now().UTC(), id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UpdateLastUsed bumps last_used_at on the key.
func (s *SQLKeyStore) UpdateLastUsed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		UPDATE api_keys SET last_used_at = ? WHERE id = ?
	`), time.Now().UTC(), id)
	return err
}

// GenerateKey returns a new plaintext API key and its storable hash.
func GenerateKey() (plaintext, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate api key: %w", err)
	}
	plaintext = KeyPrefix + hex.EncodeToString(buf)
	return plaintext, HashKey(plaintext), nil
}

// HashKey returns the hex SHA-256 digest of a plaintext key.
func HashKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
