package viewmodel

import (
	"strconv"
	"strings"

	"github.com/yildizm/tabview/internal/record"
)

const (
	keyPrefix = "k:"
	rowPrefix = "r:"
)

func isKeyIdentity(id string) bool {
	return strings.HasPrefix(id, keyPrefix)
}

// identities returns one identity per raw record. The key field value is
// used when it is present and unique; otherwise the raw position.
func (m *TableViewModel) identities() []string {
	ids := make([]string, len(m.records))
	if m.keyField == "" {
		for i := range ids {
			ids[i] = rowPrefix + strconv.Itoa(i)
		}
		return ids
	}

	counts := make(map[string]int, len(m.records))
	keys := make([]string, len(m.records))
	present := make([]bool, len(m.records))
	for i, rec := range m.records {
		v, ok := rec.Get(m.keyField)
		if !ok || v == nil {
			continue
		}
		keys[i] = record.Stringify(v)
		present[i] = true
		counts[keys[i]]++
	}
	for i := range ids {
		if present[i] && counts[keys[i]] == 1 {
			ids[i] = keyPrefix + keys[i]
		} else {
			ids[i] = rowPrefix + strconv.Itoa(i)
		}
	}
	return ids
}

// SelectAt updates the selection at a filtered+sorted index. Single mode
// replaces the selection, multi mode toggles the index and none does
// nothing. Out-of-range indices are ignored.
func (m *TableViewModel) SelectAt(index int, mode SelectionMode) {
	if mode == SelectionNone || index < 0 || index >= len(m.order) {
		return
	}

	switch mode {
	case SelectionSingle:
		if len(m.indices) == 1 && m.indices[0] == index {
			return
		}
		m.replaceSelection([]int{index})
	case SelectionMulti:
		id := m.ids[m.order[index]]
		if _, ok := m.selected[id]; ok {
			delete(m.selected, id)
		} else {
			m.selected[id] = struct{}{}
		}
		m.syncIndices()
	default:
		return
	}

	m.emit(Event{Kind: EventSelectionChanged, Cause: CauseSelect, Selection: m.SelectedIndices()})
}

// Select applies SelectAt with the configured mode
func (m *TableViewModel) Select(index int) {
	m.SelectAt(index, m.mode)
}

// ClearSelection empties the selection
func (m *TableViewModel) ClearSelection() {
	if len(m.indices) == 0 {
		return
	}
	dropped := len(m.indices)
	clear(m.selected)
	m.indices = m.indices[:0]
	m.emit(Event{Kind: EventSelectionCleared, Cause: CauseClear, Dropped: dropped})
}

// IsSelected reports whether a filtered+sorted index is selected
func (m *TableViewModel) IsSelected(index int) bool {
	if index < 0 || index >= len(m.order) {
		return false
	}
	_, ok := m.selected[m.ids[m.order[index]]]
	return ok
}

// SelectedIndices returns the selected filtered+sorted indices in ascending order
func (m *TableViewModel) SelectedIndices() []int {
	return append([]int{}, m.indices...)
}

// SelectedRecords returns the selected records in filtered+sorted order
func (m *TableViewModel) SelectedRecords() []record.Record {
	out := make([]record.Record, len(m.indices))
	for i, idx := range m.indices {
		out[i] = m.records[m.order[idx]]
	}
	return out
}

func (m *TableViewModel) replaceSelection(indices []int) {
	clear(m.selected)
	for _, idx := range indices {
		m.selected[m.ids[m.order[idx]]] = struct{}{}
	}
	m.syncIndices()
}

// syncIndices rebuilds the index list from the identity set
func (m *TableViewModel) syncIndices() {
	m.indices = m.indices[:0]
	for i, pos := range m.order {
		if _, ok := m.selected[m.ids[pos]]; ok {
			m.indices = append(m.indices, i)
		}
	}
}
