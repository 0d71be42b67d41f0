package viewmodel

import "github.com/yildizm/tabview/internal/record"

// Snapshot is an immutable bundle of what a renderer needs
type Snapshot struct {
	Fields          []string
	Rows            []record.Record
	State           State
	Total           int
	Filtered        int
	PageCount       int
	RowOffset       int
	KeyField        string
	SelectedRecords []record.Record

	selected map[int]struct{}
}

// Snapshot captures the current view
func (m *TableViewModel) Snapshot() *Snapshot {
	s := &Snapshot{
		Fields:          m.Fields(),
		Rows:            m.VisibleRows(),
		State:           m.State(),
		Total:           m.TotalCount(),
		Filtered:        m.FilteredCount(),
		PageCount:       m.PageCount(),
		RowOffset:       m.PageOffset(),
		KeyField:        m.keyField,
		SelectedRecords: m.SelectedRecords(),
		selected:        make(map[int]struct{}, len(m.indices)),
	}
	for _, idx := range m.indices {
		s.selected[idx] = struct{}{}
	}
	return s
}

// IsSelected reports whether visible row i (0-based within the page) is selected
func (s *Snapshot) IsSelected(i int) bool {
	if s == nil {
		return false
	}
	_, ok := s.selected[s.RowOffset+i]
	return ok
}

// Page returns the 1-based page number
func (s *Snapshot) Page() int {
	return s.State.PageIndex + 1
}
