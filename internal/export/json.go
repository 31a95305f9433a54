package export

import (
	"encoding/json"
	"time"
)

// JSONFormatter serializes the full-fidelity structured format. Every
// optional section (tags, metadata, click statistics, user info) is
// independently toggle-able, and pretty-printing is optional.
type JSONFormatter struct{}

func (f *JSONFormatter) MimeType() string  { return "application/json" }
func (f *JSONFormatter) Extension() string { return "json" }

// jsonDocument mirrors Dataset with pointer sections so toggled-off parts
// drop out of the output entirely.
type jsonDocument struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	User       *UserInfo      `json:"user,omitempty"`
	Bookmarks  []jsonBookmark `json:"bookmarks"`
	Tags       []Tag          `json:"tags,omitempty"`
	Metadata   *Metadata      `json:"metadata,omitempty"`
}

type jsonBookmark struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Description   string     `json:"description"`
	CoverImage    string     `json:"cover_image,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	IsPinned      bool       `json:"is_pinned"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ClickCount    *int64     `json:"click_count,omitempty"`
	LastClickedAt *time.Time `json:"last_clicked_at,omitempty"`
}

func (f *JSONFormatter) Format(ds *Dataset, opts Options) (*Artifact, error) {
	doc := jsonDocument{
		Version:    ds.FormatVersion,
		ExportedAt: ds.ExportedAt,
	}

	doc.Bookmarks = make([]jsonBookmark, 0, len(ds.Bookmarks))
	for _, b := range ds.Bookmarks {
		jb := jsonBookmark{
			ID:          b.ID,
			Title:       b.Title,
			URL:         b.URL,
			Description: b.Description,
			CoverImage:  b.CoverImage,
			IsPinned:    b.IsPinned,
			CreatedAt:   b.CreatedAt,
			UpdatedAt:   b.UpdatedAt,
		}
		if opts.IncludeTags {
			tags := b.Tags
			if tags == nil {
				tags = []string{}
			}
			jb.Tags = tags
		}
		if opts.IncludeClickStats {
			clicks := b.ClickCount
			jb.ClickCount = &clicks
			jb.LastClickedAt = b.LastClickedAt
		}
		doc.Bookmarks = append(doc.Bookmarks, jb)
	}

	if opts.IncludeTags {
		doc.Tags = ds.Tags
	}
	if opts.IncludeMetadata {
		meta := ds.Metadata
		doc.Metadata = &meta
	}
	if opts.IncludeUserInfo {
		user := ds.User
		doc.User = &user
	}

	var (
		content []byte
		err     error
	)
	if opts.PrettyPrint {
		content, err = json.MarshalIndent(doc, "", "  ")
	} else {
		content, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Content:  content,
		MimeType: f.MimeType(),
		Filename: Filename(f),
		Size:     len(content),
	}, nil
}
