package export

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnsupportedFormat is returned for a format no formatter is registered
// under. Format validation happens before any dataset collection.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Formatter turns a canonical dataset plus options into a serialized
// artifact for one output format.
type Formatter interface {
	Format(ds *Dataset, opts Options) (*Artifact, error)
	MimeType() string
	Extension() string
}

var formatters = map[string]Formatter{}

// Register adds a formatter under the given format name. New formats plug in
// here rather than extending a switch.
func Register(name string, f Formatter) {
	formatters[name] = f
}

// Lookup returns the formatter registered under name, or
// ErrUnsupportedFormat.
func Lookup(name string) (Formatter, error) {
	f, ok := formatters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return f, nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filename returns the date-stamped suggested filename for a format.
func Filename(f Formatter) string {
	return fmt.Sprintf("tmarks-export-%s.%s", time.Now().UTC().Format("2006-01-02"), f.Extension())
}

func init() {
	Register("json", &JSONFormatter{})
	Register("html", &HTMLFormatter{})
}
