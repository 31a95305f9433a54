package api

import "time"

// --- Bookmark types ---

// BookmarkResponse is the JSON representation of a single bookmark.
type BookmarkResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Description   string     `json:"description"`
	CoverImage    string     `json:"cover_image,omitempty"`
	Tags          []string   `json:"tags"`
	IsPinned      bool       `json:"is_pinned"`
	IsArchived    bool       `json:"is_archived"`
	ClickCount    int64      `json:"click_count"`
	LastClickedAt *time.Time `json:"last_clicked_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// BookmarkListResponse is the response for the bookmark list endpoint.
type BookmarkListResponse struct {
	Bookmarks []BookmarkResponse `json:"bookmarks"`
}

// --- Tag types ---

// TagResponse is the JSON representation of a tag.
type TagResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color,omitempty"`
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TagListResponse is the response for the tag list endpoint.
type TagListResponse struct {
	Tags []TagResponse `json:"tags"`
}

// --- Export types ---

// ExportPreviewRequest is the request body for POST /api/v1/export/preview.
type ExportPreviewRequest struct {
	Format string `json:"format,omitempty"`
}

// --- API key types ---

// CreateAPIKeyRequest is the request body for POST /api/v1/api-keys.
type CreateAPIKeyRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// APIKeyResponse is the JSON representation of an API key. It never carries
// the key hash.
type APIKeyResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// APIKeyCreatedResponse includes the plaintext key, returned exactly once at
// creation time.
type APIKeyCreatedResponse struct {
	APIKeyResponse
	Key string `json:"key"`
}

// APIKeyListResponse is the response for the API key list endpoint.
type APIKeyListResponse struct {
	Keys []*APIKeyResponse `json:"keys"`
}
