package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DefaultFactory is the default loader factory
var DefaultFactory = NewFactory()

// Constructor builds a loader for the given options
type Constructor func(opts Options) Loader

// Factory creates loaders by format name and detects formats
type Factory struct {
	loaders    map[string]Constructor
	extensions map[string]string
	mu         sync.RWMutex
}

// NewFactory creates a factory with the built-in loaders registered
func NewFactory() *Factory {
	f := &Factory{
		loaders:    make(map[string]Constructor),
		extensions: make(map[string]string),
	}

	f.Register("json", func(o Options) Loader {
		l := NewJSONLoader()
		l.log = o.Logger.WithComponent("source")
		return l
	}, ".json")
	f.Register("ndjson", func(o Options) Loader {
		l := NewNDJSONLoader()
		l.log = o.Logger.WithComponent("source")
		return l
	}, ".ndjson", ".jsonl")
	f.Register("yaml", func(o Options) Loader {
		l := NewYAMLLoader()
		l.log = o.Logger.WithComponent("source")
		return l
	}, ".yaml", ".yml")
	f.Register("csv", func(o Options) Loader { return NewCSVLoader(',', o.InferTypes) }, ".csv")
	f.Register("tsv", func(o Options) Loader { return NewCSVLoader('\t', o.InferTypes) }, ".tsv", ".tab")
	f.Register("xlsx", func(o Options) Loader { return NewXLSXLoader(o.Sheet, o.InferTypes) }, ".xlsx", ".xlsm")
	f.Register("log", func(o Options) Loader { return NewLogLoader(o.LogFormat) }, ".log")

	return f
}

// Register adds a loader constructor and the file extensions it owns
func (f *Factory) Register(format string, ctor Constructor, extensions ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	format = strings.ToLower(format)
	f.loaders[format] = ctor
	for _, ext := range extensions {
		f.extensions[strings.ToLower(ext)] = format
	}
}

// CreateLoader creates a loader for the specified format
func (f *Factory) CreateLoader(format string, opts Options) (Loader, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if ctor, ok := f.loaders[strings.ToLower(format)]; ok {
		return ctor(opts), nil
	}
	return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownFormat, format, strings.Join(f.formatsLocked(), ", "))
}

// Formats returns the registered format names in sorted order
func (f *Factory) Formats() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.formatsLocked()
}

func (f *Factory) formatsLocked() []string {
	names := make([]string, 0, len(f.loaders))
	for name := range f.loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectFormat picks a format from the file extension, falling back to
// the content of sample
func (f *Factory) DetectFormat(name string, sample []byte) string {
	if name != "" {
		f.mu.RLock()
		format, ok := f.extensions[strings.ToLower(filepath.Ext(name))]
		f.mu.RUnlock()
		if ok {
			return format
		}
	}
	return sniffFormat(sample)
}

// zipMagic starts every xlsx workbook
var zipMagic = []byte("PK\x03\x04")

// sniffFormat recognises structured documents by their first bytes, then
// scores delimited text and falls back to log lines
func sniffFormat(sample []byte) string {
	if bytes.HasPrefix(sample, zipMagic) {
		return "xlsx"
	}

	trimmed := bytes.TrimSpace(sample)
	lines := sampleLines(trimmed, 10)
	switch {
	case bytes.HasPrefix(trimmed, []byte("[")):
		return "json"
	case bytes.HasPrefix(trimmed, []byte("---")), bytes.HasPrefix(trimmed, []byte("- ")):
		return "yaml"
	case bytes.HasPrefix(trimmed, []byte("{")):
		// several one-line objects are ndjson, anything else one document
		if len(lines) > 1 && looksLikeJSONObject(lines[0]) {
			return "ndjson"
		}
		return "json"
	}

	if len(lines) == 0 {
		return "log"
	}

	scores := make(map[string]int)
	commas := strings.Count(lines[0], ",")
	tabs := strings.Count(lines[0], "\t")
	for _, line := range lines {
		if tabs > 0 && strings.Count(line, "\t") == tabs {
			scores["tsv"]++
		}
		if commas > 0 && strings.Count(line, ",") == commas {
			scores["csv"]++
		}
	}

	var bestFormat string
	var bestScore int

	// Check in order of preference
	preferredOrder := []string{"tsv", "csv"}
	for _, format := range preferredOrder {
		if score := scores[format]; score > bestScore && score*2 > len(lines) {
			bestFormat = format
			bestScore = score
		}
	}

	if bestFormat == "" {
		return "log"
	}
	return bestFormat
}

func sampleLines(sample []byte, limit int) []string {
	var lines []string
	for _, line := range strings.Split(string(sample), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == limit {
			break
		}
	}
	return lines
}

func looksLikeJSONObject(line string) bool {
	return strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}") && json.Valid([]byte(line))
}
