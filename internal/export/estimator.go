package export

import (
	"context"
	"fmt"

	"github.com/tmarks/tmarks/internal/store"
)

// Per-item average output sizes in bytes, by format. Multiplied by the item
// counts to estimate the artifact size without serializing anything.
const (
	jsonBytesPerBookmark = 200
	jsonBytesPerTag      = 50
	htmlBytesPerBookmark = 150
	htmlBytesPerTag      = 30
)

// Stats are the item counts behind an export preview.
type Stats struct {
	TotalBookmarks  int `json:"total_bookmarks"`
	TotalTags       int `json:"total_tags"`
	PinnedBookmarks int `json:"pinned_bookmarks"`
}

// Preview is the cheap export estimate: counts, a size figure, and the
// filename the real export would carry.
type Preview struct {
	Stats             Stats  `json:"stats"`
	EstimatedSize     int    `json:"estimated_size"`
	Format            string `json:"format"`
	EstimatedFilename string `json:"estimated_filename"`
}

// Estimator computes export previews from aggregate queries only. It never
// invokes the collector, so previewing stays cheap regardless of dataset
// size.
type Estimator struct {
	bookmarks *store.BookmarkStore
	tags      *store.TagStore
}

func NewEstimator(bookmarks *store.BookmarkStore, tags *store.TagStore) *Estimator {
	return &Estimator{bookmarks: bookmarks, tags: tags}
}

// Estimate returns the preview for ownerID and format, or
// ErrUnsupportedFormat before any query runs.
func (e *Estimator) Estimate(ctx context.Context, ownerID, format string) (*Preview, error) {
	formatter, err := Lookup(format)
	if err != nil {
		return nil, err
	}

	counts, err := e.bookmarks.CountsForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count bookmarks: %w", err)
	}
	tagCount, err := e.tags.CountActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}

	perBookmark, perTag := jsonBytesPerBookmark, jsonBytesPerTag
	if format == "html" {
		perBookmark, perTag = htmlBytesPerBookmark, htmlBytesPerTag
	}

	return &Preview{
		Stats: Stats{
			TotalBookmarks:  counts.Total,
			TotalTags:       tagCount,
			PinnedBookmarks: counts.Pinned,
		},
		EstimatedSize:     counts.Total*perBookmark + tagCount*perTag,
		Format:            format,
		EstimatedFilename: Filename(formatter),
	}, nil
}
