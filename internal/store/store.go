package store

import (
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound is returned when an owner id resolves to no user row.
	ErrUserNotFound = errors.New("user not found")
)

// DefaultUserID is the well-known placeholder identity used when no
// registered account exists. Lookups for it never hit storage; a synthetic
// user record is substituted instead.
const DefaultUserID = "default-user"

// isUniqueConstraintError reports whether err is a unique/primary key
// violation on any of the supported drivers.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

// inQuery expands slice arguments for an IN (...) clause and rebinds the
// placeholders for ext's driver.
func inQuery(ext sqlx.ExtContext, query string, args ...any) (string, []any, error) {
	q, expanded, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return ext.Rebind(q), expanded, nil
}
