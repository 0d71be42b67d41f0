package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yildizm/tabview/internal/record"
)

// CSVLoader reads delimited text with a header row
type CSVLoader struct {
	comma      rune
	inferTypes bool
}

// NewCSVLoader creates a loader for comma (or other rune) separated text
func NewCSVLoader(comma rune, inferTypes bool) *CSVLoader {
	return &CSVLoader{comma: comma, inferTypes: inferTypes}
}

// Name returns the format name
func (l *CSVLoader) Name() string {
	if l.comma == '\t' {
		return "tsv"
	}
	return "csv"
}

// Load reads the header and every data row. Rows may be ragged.
func (l *CSVLoader) Load(r io.Reader) ([]record.Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = l.comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}

	return tableRecords(header, rows, l.inferTypes), nil
}

// tableRecords turns a header and text rows into records. Cells past the
// header get generated names, short rows leave fields absent and blank
// rows are skipped.
func tableRecords(header []string, rows [][]string, inferTypes bool) []record.Record {
	names := headerNames(header)

	records := make([]record.Record, 0, len(rows))
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		rec := make(record.Record, len(row))
		for i, cell := range row {
			for i >= len(names) {
				names = append(names, columnName(len(names)))
			}
			rec[names[i]] = cell
		}
		records = append(records, rec)
	}

	if inferTypes {
		records = record.InferShape(records).Apply(records)
	}
	return records
}

// headerNames fills blank header cells and de-duplicates repeated names
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = columnName(i)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = name + "_" + strconv.Itoa(n)
		}
		names[i] = name
	}
	return names
}

func columnName(i int) string {
	return "column_" + strconv.Itoa(i+1)
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
