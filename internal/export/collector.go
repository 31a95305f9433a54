package export

import (
	"context"
	"fmt"
	"time"

	"github.com/tmarks/tmarks/internal/store"
)

// Collector assembles a user's complete active dataset for export.
//
// The three reads (bookmarks, tags, associations) are independent queries
// with no snapshot guarantee; a concurrent mutation between them can produce
// a dataset with a dangling or missing association. That is accepted for a
// best-effort export.
type Collector struct {
	users     *store.UserStore
	bookmarks *store.BookmarkStore
	tags      *store.TagStore
}

func NewCollector(users *store.UserStore, bookmarks *store.BookmarkStore, tags *store.TagStore) *Collector {
	return &Collector{users: users, bookmarks: bookmarks, tags: tags}
}

// Collect builds the canonical export dataset for ownerID: every active
// bookmark (newest first) with its resolved tag-name list, every active tag
// (name-ordered) with a derived bookmark_count, and aggregate totals.
func (c *Collector) Collect(ctx context.Context, ownerID string) (*Dataset, error) {
	user, err := c.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	bookmarks, err := c.bookmarks.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("collect bookmarks: %w", err)
	}
	tags, err := c.tags.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("collect tags: %w", err)
	}
	associations, err := c.tags.ListAssociations(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("collect associations: %w", err)
	}

	// One pass over the associations builds the bookmark id -> tag names map.
	tagNames := make(map[string][]string)
	for _, assoc := range associations {
		tagNames[assoc.BookmarkID] = append(tagNames[assoc.BookmarkID], assoc.TagName)
	}

	exportBookmarks := make([]Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		names := tagNames[b.ID]
		if names == nil {
			names = []string{}
		}
		var lastClicked *time.Time
		if b.LastClickedAt.Valid {
			t := b.LastClickedAt.Time
			lastClicked = &t
		}
		exportBookmarks = append(exportBookmarks, Bookmark{
			ID:            b.ID,
			Title:         b.Title,
			URL:           b.URL,
			Description:   b.Description,
			CoverImage:    b.CoverImage,
			Tags:          names,
			IsPinned:      b.IsPinned,
			CreatedAt:     b.CreatedAt,
			UpdatedAt:     b.UpdatedAt,
			ClickCount:    b.ClickCount,
			LastClickedAt: lastClicked,
		})
	}

	exportTags := make([]Tag, 0, len(tags))
	for _, t := range tags {
		// Derived at request time from the attached name lists; deliberately
		// not reconciled with the persisted usage_count.
		count := 0
		for _, b := range exportBookmarks {
			for _, name := range b.Tags {
				if name == t.Name {
					count++
					break
				}
			}
		}
		exportTags = append(exportTags, Tag{
			ID:            t.ID,
			Name:          t.Name,
			Color:         t.Color,
			UsageCount:    t.UsageCount,
			BookmarkCount: count,
			CreatedAt:     t.CreatedAt,
			UpdatedAt:     t.UpdatedAt,
		})
	}

	var email string
	if user.Email.Valid {
		email = user.Email.String
	}

	return &Dataset{
		FormatVersion: Version,
		ExportedAt:    time.Now().UTC(),
		User: UserInfo{
			ID:        user.ID,
			Email:     email,
			Username:  user.Username,
			CreatedAt: user.CreatedAt,
		},
		Bookmarks: exportBookmarks,
		Tags:      exportTags,
		Metadata: Metadata{
			TotalBookmarks: len(exportBookmarks),
			TotalTags:      len(exportTags),
			ExportFormat:   "json",
		},
	}, nil
}
