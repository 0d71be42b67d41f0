package formatter

import (
	"encoding/json"

	"github.com/yildizm/tabview/internal/record"
	"github.com/yildizm/tabview/internal/viewmodel"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the document written by the JSON formatter
type JSONOutput struct {
	State     StateOutput     `json:"state"`
	Total     int             `json:"total"`
	Filtered  int             `json:"filtered"`
	PageCount int             `json:"page_count"`
	Fields    []string        `json:"fields"`
	Rows      []record.Record `json:"rows"`
	Selected  []record.Record `json:"selected"`
}

// StateOutput represents the view state section
type StateOutput struct {
	Query         string `json:"query"`
	SortField     string `json:"sort_field,omitempty"`
	SortDirection string `json:"sort_direction"`
	Page          int    `json:"page"`
	PageSize      int    `json:"page_size"`
	SelectionMode string `json:"selection_mode"`
	Selection     []int  `json:"selection"`
}

func (f *jsonFormatter) Format(s *viewmodel.Snapshot) ([]byte, error) {
	output := &JSONOutput{
		State: StateOutput{
			Query:         s.State.Query,
			SortField:     s.State.Sort.Field,
			SortDirection: s.State.Sort.Direction.String(),
			Page:          s.State.PageIndex,
			PageSize:      s.State.PageSize,
			SelectionMode: s.State.SelectionMode.String(),
			Selection:     nonNil(s.State.Selection),
		},
		Total:     s.Total,
		Filtered:  s.Filtered,
		PageCount: s.PageCount,
		Fields:    nonNil(s.Fields),
		Rows:      nonNil(s.Rows),
		Selected:  nonNil(s.SelectedRecords),
	}

	return json.MarshalIndent(output, "", "  ")
}

// nonNil keeps empty lists encoded as [] rather than null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
