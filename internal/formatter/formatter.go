package formatter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yildizm/tabview/internal/viewmodel"
)

// ErrUnknownFormat is returned by New for unregistered format names
var ErrUnknownFormat = errors.New("unknown output format")

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(s *viewmodel.Snapshot) ([]byte, error)
}

// Options controls rendering details shared by all formats
type Options struct {
	Color           bool
	Emoji           bool
	MaxCellWidth    int
	TimestampFormat string
}

// DefaultOptions returns options matching the default configuration
func DefaultOptions() Options {
	return Options{
		Color:           false,
		Emoji:           true,
		MaxCellWidth:    32,
		TimestampFormat: "2006-01-02 15:04:05",
	}
}

var constructors = map[string]func(Options) Formatter{
	"table":    NewTable,
	"json":     func(Options) Formatter { return NewJSON() },
	"csv":      NewCSV,
	"markdown": NewMarkdown,
	"prompt":   NewPrompt,
}

var aliases = map[string]string{
	"text": "table",
	"md":   "markdown",
}

// Names returns the registered format names in sorted order
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the formatter registered under name
func New(name string, opts Options) (Formatter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if ctor, ok := constructors[key]; ok {
		return ctor(opts), nil
	}

	if suggestion, ok := Closest(key, Names()); ok {
		return nil, fmt.Errorf("%w: %s (did you mean %q?)", ErrUnknownFormat, name, suggestion)
	}
	return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownFormat, name, strings.Join(Names(), ", "))
}
