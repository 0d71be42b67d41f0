package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/yildizm/go-logparser"

	"github.com/yildizm/tabview/internal/record"
)

// Fields every log record carries
const (
	LogFieldLine      = "line"
	LogFieldTimestamp = "timestamp"
	LogFieldLevel     = "level"
	LogFieldMessage   = "message"
)

// LogLoader turns log lines into records
type LogLoader struct {
	format string
}

// NewLogLoader creates a log loader. format is auto, json, logfmt or text.
func NewLogLoader(format string) *LogLoader {
	return &LogLoader{format: strings.ToLower(format)}
}

// Name returns the format name
func (l *LogLoader) Name() string { return "log" }

func (l *LogLoader) parser() (logparser.Parser, error) {
	switch l.format {
	case "", "auto":
		return logparser.New(), nil
	case "json":
		return logparser.NewWithFormat(logparser.FormatJSON), nil
	case "logfmt":
		return logparser.NewWithFormat(logparser.FormatLogfmt), nil
	case "text":
		return logparser.NewWithFormat(logparser.FormatText), nil
	}
	return nil, fmt.Errorf("%w: log format %s (available: auto, json, logfmt, text)", ErrUnknownFormat, l.format)
}

// Load parses every line. Parsed fields are added unless they clash with
// the fixed line, timestamp, level and message fields.
func (l *LogLoader) Load(r io.Reader) ([]record.Record, error) {
	p, err := l.parser()
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, ErrEmptyInput
	}

	entries, err := p.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse logs: %w", err)
	}

	records := make([]record.Record, 0, len(entries))
	for i, entry := range entries {
		rec := make(record.Record, len(entry.Fields)+4)
		for k, v := range entry.Fields {
			rec[k] = v
		}
		rec[LogFieldLine] = i + 1
		if !entry.Timestamp.IsZero() {
			rec[LogFieldTimestamp] = entry.Timestamp
		}
		if entry.Level != "" {
			rec[LogFieldLevel] = strings.ToUpper(entry.Level)
		}
		rec[LogFieldMessage] = entry.Message
		records = append(records, rec)
	}
	return records, nil
}
