package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/yildizm/tabview/internal/viewmodel"
)

// csvFormatter formats the visible rows as CSV
type csvFormatter struct {
	opts Options
}

// NewCSV creates a new CSV formatter
func NewCSV(opts Options) Formatter {
	return &csvFormatter{opts: opts}
}

func (f *csvFormatter) Format(s *viewmodel.Snapshot) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write(s.Fields); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range s.Rows {
		row := make([]string, len(s.Fields))
		for i, field := range s.Fields {
			if v, ok := rec.Get(field); ok {
				row[i] = csvValue(v, f.opts)
			}
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

// csvValue keeps embedded newlines, which encoding/csv quotes
func csvValue(v any, opts Options) string {
	if s, ok := v.(string); ok {
		return s
	}
	return cellText(v, opts)
}
