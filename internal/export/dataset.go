// Package export implements the export assembly pipeline: collecting a
// user's full bookmark dataset, shaping it into a canonical export model, and
// handing it to a per-format serializer.
package export

import "time"

// Version identifies the export data format carried in every structured
// export.
const Version = "1.0"

// Dataset is the canonical in-memory shape of a user's full collection,
// independent of output format. It is built fresh per export request,
// consumed by exactly one formatter, and discarded.
type Dataset struct {
	FormatVersion string     `json:"version"`
	ExportedAt    time.Time  `json:"exported_at"`
	User          UserInfo   `json:"user"`
	Bookmarks     []Bookmark `json:"bookmarks"`
	Tags          []Tag      `json:"tags"`
	Metadata      Metadata   `json:"metadata"`
}

// UserInfo is the summary of the exporting user.
type UserInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark is the portable representation of one bookmark, carrying its
// resolved tag names.
type Bookmark struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Description   string     `json:"description"`
	CoverImage    string     `json:"cover_image,omitempty"`
	Tags          []string   `json:"tags"`
	IsPinned      bool       `json:"is_pinned"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ClickCount    int64      `json:"click_count"`
	LastClickedAt *time.Time `json:"last_clicked_at"`
}

// Tag is the portable representation of one tag. BookmarkCount is derived at
// export time from the attached tag-name lists; UsageCount is the persisted
// cached counter. The two can differ if the cache has drifted and both are
// reported as-is.
type Tag struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Color         string    `json:"color,omitempty"`
	UsageCount    int       `json:"usage_count"`
	BookmarkCount int       `json:"bookmark_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Metadata holds aggregate totals for the dataset.
type Metadata struct {
	TotalBookmarks int    `json:"total_bookmarks"`
	TotalTags      int    `json:"total_tags"`
	ExportFormat   string `json:"export_format"`
}

// Options are the per-request serialization toggles. Format implementations
// without a slot for a toggled field accept and ignore it.
type Options struct {
	IncludeTags       bool
	IncludeMetadata   bool
	PrettyPrint       bool
	IncludeClickStats bool
	IncludeUserInfo   bool
}

// DefaultOptions mirrors the endpoint defaults: tags, metadata, and pretty
// printing on; click stats and user info off.
func DefaultOptions() Options {
	return Options{IncludeTags: true, IncludeMetadata: true, PrettyPrint: true}
}

// Artifact is a serialized export plus the transport metadata the caller
// needs to set response headers without re-inspecting the content.
type Artifact struct {
	Content  []byte
	MimeType string
	Filename string
	Size     int
}
