package source

import (
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/yildizm/tabview/internal/record"
)

// XLSXLoader reads one worksheet, using its first row as headers
type XLSXLoader struct {
	sheet      string
	inferTypes bool
}

// NewXLSXLoader creates a workbook loader. An empty sheet means the first.
func NewXLSXLoader(sheet string, inferTypes bool) *XLSXLoader {
	return &XLSXLoader{sheet: sheet, inferTypes: inferTypes}
}

// Name returns the format name
func (l *XLSXLoader) Name() string { return "xlsx" }

// Load opens the workbook and reads the selected sheet
func (l *XLSXLoader) Load(r io.Reader) ([]record.Record, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}

	sheet := l.sheet
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, fmt.Errorf("sheet %q not found (available: %v)", sheet, sheets)
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return []record.Record{}, nil
	}

	return tableRecords(rows[0], rows[1:], l.inferTypes), nil
}
