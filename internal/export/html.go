package export

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// HTMLFormatter serializes the browser-compatible Netscape bookmark file
// format, for cross-tool portability. Metadata and click-stats toggles are
// accepted but ignored: the target format has no slot for them.
type HTMLFormatter struct{}

func (f *HTMLFormatter) MimeType() string  { return "text/html" }
func (f *HTMLFormatter) Extension() string { return "html" }

func (f *HTMLFormatter) Format(ds *Dataset, opts Options) (*Artifact, error) {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<!-- This is an automatically generated file.\n")
	b.WriteString("     It will be read and overwritten.\n")
	b.WriteString("     DO NOT EDIT! -->\n")
	b.WriteString(`<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">` + "\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, bm := range ds.Bookmarks {
		b.WriteString(`    <DT><A HREF="` + html.EscapeString(bm.URL) + `"`)
		b.WriteString(` ADD_DATE="` + strconv.FormatInt(bm.CreatedAt.Unix(), 10) + `"`)
		b.WriteString(` LAST_MODIFIED="` + strconv.FormatInt(bm.UpdatedAt.Unix(), 10) + `"`)
		if opts.IncludeTags && len(bm.Tags) > 0 {
			b.WriteString(` TAGS="` + html.EscapeString(strings.Join(bm.Tags, ",")) + `"`)
		}
		fmt.Fprintf(&b, ">%s</A>\n", html.EscapeString(bm.Title))
		if bm.Description != "" {
			b.WriteString("    <DD>" + html.EscapeString(bm.Description) + "\n")
		}
	}

	b.WriteString("</DL><p>\n")

	content := []byte(b.String())
	return &Artifact{
		Content:  content,
		MimeType: f.MimeType(),
		Filename: Filename(f),
		Size:     len(content),
	}, nil
}
