package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yildizm/tabview/internal/logger"
	"github.com/yildizm/tabview/internal/record"
)

// envelopeKeys name the array member of a wrapped JSON or YAML document
var envelopeKeys = []string{"records", "rows", "data"}

// JSONLoader reads a JSON array of objects, or an object wrapping one
type JSONLoader struct {
	log *logger.Logger
}

// NewJSONLoader creates a JSON loader
func NewJSONLoader() *JSONLoader {
	return &JSONLoader{}
}

// Name returns the format name
func (l *JSONLoader) Name() string { return "json" }

// Load decodes the document. A well-formed document of the wrong shape
// yields no records.
func (l *JSONLoader) Load(r io.Reader) ([]record.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return recordsFromDocument(normalizeNumbers(doc), l.log), nil
}

// NDJSONLoader reads one JSON object per line
type NDJSONLoader struct {
	log *logger.Logger

	// Skipped counts invalid lines seen by the last Load
	Skipped int
}

// NewNDJSONLoader creates a newline-delimited JSON loader
func NewNDJSONLoader() *NDJSONLoader {
	return &NDJSONLoader{}
}

// Name returns the format name
func (l *NDJSONLoader) Name() string { return "ndjson" }

// Load decodes each non-empty line, skipping lines that are not objects
func (l *NDJSONLoader) Load(r io.Reader) ([]record.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024) // 1MB lines

	l.Skipped = 0
	var records []record.Record
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil || obj == nil {
			l.Skipped++
			l.log.Debug("skipping line %d: not a JSON object", lineNumber)
			continue
		}
		records = append(records, record.Record(normalizeNumbers(obj).(map[string]any)))
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("scanner error: %w", err)
	}
	if l.Skipped > 0 {
		l.log.Warn("skipped %d invalid lines", l.Skipped)
	}
	return records, nil
}

// recordsFromDocument accepts a sequence of objects or an object whose
// records/rows/data member is one
func recordsFromDocument(doc any, log *logger.Logger) []record.Record {
	if obj, ok := doc.(map[string]any); ok {
		for _, key := range envelopeKeys {
			if inner, ok := obj[key]; ok {
				doc = inner
				break
			}
		}
	}

	records, ok := record.FromAny(doc)
	if !ok {
		log.Debug("document is not a sequence of objects")
		return []record.Record{}
	}
	return records
}

// normalizeNumbers converts json.Number values to float64, recursively
func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		for k, inner := range val {
			val[k] = normalizeNumbers(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = normalizeNumbers(inner)
		}
		return val
	default:
		return v
	}
}
