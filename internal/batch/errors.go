package batch

import "net/http"

// Error is a classified batch failure. The API layer maps Code and Status
// straight onto the wire; anything that is not an *Error is an internal
// error whose real cause stays server-side.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	// ErrInvalidRequest means the bookmark id set was missing or empty.
	ErrInvalidRequest = &Error{
		Code:    "INVALID_REQUEST",
		Status:  http.StatusBadRequest,
		Message: "action and bookmark_ids are required",
	}

	// ErrTooManyItems means the bookmark id set exceeded MaxBatchSize.
	ErrTooManyItems = &Error{
		Code:    "TOO_MANY_ITEMS",
		Status:  http.StatusBadRequest,
		Message: "cannot process more than 100 bookmarks at once",
	}

	// ErrNoValidBookmarks means none of the requested bookmarks resolved to
	// an owned, active row.
	ErrNoValidBookmarks = &Error{
		Code:    "NO_VALID_BOOKMARKS",
		Status:  http.StatusNotFound,
		Message: "no valid bookmarks found",
	}
)

func errInvalidAction(action Action) *Error {
	return &Error{
		Code:    "INVALID_ACTION",
		Status:  http.StatusBadRequest,
		Message: "invalid action: " + string(action),
	}
}
