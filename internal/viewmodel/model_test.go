package viewmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/tabview/internal/record"
)

func people() []any {
	return []any{
		map[string]any{"id": 1, "name": "Bob"},
		map[string]any{"id": 2, "name": "alice"},
		map[string]any{"id": 3, "name": "Carol"},
	}
}

type eventLog struct {
	events []Event
}

func (l *eventLog) listen(e Event) {
	l.events = append(l.events, e)
}

func (l *eventLog) kinds() []EventKind {
	out := make([]EventKind, len(l.events))
	for i, e := range l.events {
		out[i] = e.Kind
	}
	return out
}

func names(rows []record.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = record.Stringify(r["name"])
	}
	return out
}

func TestFilterSortPaginateScenario(t *testing.T) {
	m := New(WithPageSize(1))
	m.SetRecords(people())

	m.SetQuery("a")
	assert.Equal(t, []string{"alice", "Carol"}, names(m.Rows()))
	assert.Equal(t, 2, m.FilteredCount())
	assert.Equal(t, 3, m.TotalCount())

	m.SetSort("name", SortAscending)
	assert.Equal(t, []string{"alice", "Carol"}, names(m.Rows()))

	assert.Equal(t, 2, m.PageCount())
	assert.Equal(t, []string{"alice"}, names(m.VisibleRows()))
	m.SetPage(1)
	assert.Equal(t, []string{"Carol"}, names(m.VisibleRows()))
}

func TestSelectionClearedWhenQueryRemovesRecord(t *testing.T) {
	var log eventLog
	m := New(WithListener(log.listen))
	m.SetRecords(people())
	require.Equal(t, 3, m.FilteredCount())

	m.SelectAt(0, SelectionSingle)
	require.Equal(t, []int{0}, m.SelectedIndices())

	m.SetQuery("carol")
	assert.Empty(t, m.SelectedIndices())
	assert.Empty(t, m.SelectedRecords())
	assert.Equal(t, []EventKind{EventSelectionChanged, EventSelectionCleared}, log.kinds())
	assert.Equal(t, CauseQuery, log.events[1].Cause)
	assert.Equal(t, 1, log.events[1].Dropped)
}

func TestSelectionPrunedAndRemapped(t *testing.T) {
	var log eventLog
	m := New(WithListener(log.listen))
	m.SetRecords(people())

	m.SelectAt(0, SelectionMulti)
	m.SelectAt(2, SelectionMulti)
	require.Equal(t, []string{"Bob", "Carol"}, names(m.SelectedRecords()))

	m.SetQuery("a")
	require.Len(t, log.events, 3)
	pruned := log.events[2]
	assert.Equal(t, EventSelectionPruned, pruned.Kind)
	assert.Equal(t, 1, pruned.Dropped)
	assert.Equal(t, []int{1}, pruned.Selection)
	assert.Equal(t, []string{"Carol"}, names(m.SelectedRecords()))

	m.SetSort("name", SortDescending)
	assert.Equal(t, []string{"Carol", "alice"}, names(m.Rows()))
	assert.Equal(t, []int{0}, m.SelectedIndices())
	last := log.events[len(log.events)-1]
	assert.Equal(t, EventSelectionChanged, last.Kind)
	assert.Equal(t, CauseSort, last.Cause)
}

func TestSelectionSurvivesPageChange(t *testing.T) {
	m := New(WithPageSize(1))
	m.SetRecords(people())

	m.SelectAt(2, SelectionMulti)
	m.SetPage(0)
	m.SetPage(1)
	m.SetPageSize(2)

	assert.Equal(t, []int{2}, m.SelectedIndices())
	assert.Equal(t, []string{"Carol"}, names(m.SelectedRecords()))
}

func TestSelectAtModes(t *testing.T) {
	m := New()
	m.SetRecords(people())

	m.SelectAt(0, SelectionSingle)
	m.SelectAt(2, SelectionSingle)
	assert.Equal(t, []int{2}, m.SelectedIndices())

	m.SelectAt(1, SelectionMulti)
	assert.Equal(t, []int{1, 2}, m.SelectedIndices())
	m.SelectAt(1, SelectionMulti)
	assert.Equal(t, []int{2}, m.SelectedIndices())

	m.SelectAt(0, SelectionNone)
	m.SelectAt(3, SelectionMulti)
	m.SelectAt(-1, SelectionSingle)
	assert.Equal(t, []int{2}, m.SelectedIndices())

	m.ClearSelection()
	assert.Empty(t, m.SelectedIndices())
}

func TestSelectUsesConfiguredMode(t *testing.T) {
	m := New(WithSelectionMode(SelectionSingle))
	m.SetRecords(people())

	m.Select(0)
	m.Select(1)
	assert.Equal(t, []int{1}, m.SelectedIndices())

	m.SetSelectionMode(SelectionNone)
	assert.Empty(t, m.SelectedIndices())
	m.Select(0)
	assert.Empty(t, m.SelectedIndices())
}

func TestSetRecordsSelection(t *testing.T) {
	t.Run("cleared without key field", func(t *testing.T) {
		var log eventLog
		m := New(WithListener(log.listen))
		m.SetRecords(people())
		m.SelectAt(1, SelectionMulti)

		m.SetRecords(people())
		assert.Empty(t, m.SelectedIndices())
		assert.Equal(t, EventSelectionCleared, log.events[len(log.events)-1].Kind)
		assert.Equal(t, CauseRecords, log.events[len(log.events)-1].Cause)
	})

	t.Run("remapped by key field", func(t *testing.T) {
		var log eventLog
		m := New(WithKeyField("id"), WithListener(log.listen))
		m.SetRecords(people())
		m.SelectAt(1, SelectionMulti)

		m.SetRecords([]any{
			map[string]any{"id": 3, "name": "Carol"},
			map[string]any{"id": 4, "name": "Dave"},
			map[string]any{"id": 2, "name": "Alice"},
		})
		assert.Equal(t, []int{2}, m.SelectedIndices())
		assert.Equal(t, []string{"Alice"}, names(m.SelectedRecords()))
		assert.Equal(t, EventSelectionChanged, log.events[len(log.events)-1].Kind)
	})

	t.Run("dropped when key disappears", func(t *testing.T) {
		m := New(WithKeyField("id"))
		m.SetRecords(people())
		m.SelectAt(0, SelectionMulti)
		m.SelectAt(1, SelectionMulti)

		m.SetRecords([]any{map[string]any{"id": 2, "name": "alice"}})
		assert.Equal(t, []int{0}, m.SelectedIndices())
	})
}

func TestMalformedInputIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"string", "not records"},
		{"single object", map[string]any{"id": 1}},
		{"mixed sequence", []any{map[string]any{"id": 1}, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.SetRecords(people())
			m.SetRecords(tt.input)

			assert.Equal(t, 0, m.TotalCount())
			assert.Empty(t, m.VisibleRows())
			assert.Equal(t, 1, m.PageCount())
			assert.Empty(t, m.Fields())
		})
	}
}

func TestPageClamping(t *testing.T) {
	var log eventLog
	m := New(WithPageSize(2), WithListener(log.listen))
	m.SetRecords([]any{
		map[string]any{"n": "one"},
		map[string]any{"n": "two"},
		map[string]any{"n": "three"},
		map[string]any{"n": "four"},
		map[string]any{"n": "five"},
	})
	require.Equal(t, 3, m.PageCount())

	m.SetPage(10)
	assert.Equal(t, 2, m.State().PageIndex)
	require.Len(t, log.events, 1)
	assert.Equal(t, Event{Kind: EventPageClamped, Cause: CausePage, PreviousPage: 10, Page: 2}, log.events[0])

	m.SetQuery("one")
	assert.Equal(t, 0, m.State().PageIndex)
	assert.Equal(t, Event{Kind: EventPageClamped, Cause: CauseQuery, PreviousPage: 2, Page: 0}, log.events[1])

	m.SetQuery("")
	m.SetPage(2)
	m.SetPageSize(5)
	assert.Equal(t, 0, m.State().PageIndex)
	assert.Equal(t, CausePageSize, log.events[len(log.events)-1].Cause)

	m.SetPageSize(-3)
	assert.Equal(t, 0, m.State().PageSize)
	assert.Len(t, m.VisibleRows(), 5)
}

func TestHugePageSizeKeepsPageInRange(t *testing.T) {
	for _, size := range []int{math.MaxInt, math.MaxInt - 1} {
		m := New(WithPageSize(2))
		m.SetRecords(people())
		m.SetPage(1)

		m.SetPageSize(size)
		assert.Equal(t, 0, m.State().PageIndex, "size %d", size)
		assert.Equal(t, 1, m.PageCount(), "size %d", size)
		assert.Len(t, m.VisibleRows(), 3, "size %d", size)
	}
}

func TestIdenticalInputsAreNoOps(t *testing.T) {
	var log eventLog
	m := New(WithListener(log.listen), WithQuery("a"), WithSort("name", SortAscending))
	m.SetRecords(people())
	m.SelectAt(0, SelectionMulti)
	before := len(log.events)

	m.SetQuery("a")
	m.SetSort("name", SortAscending)
	m.SetPageSize(DefaultPageSize)
	m.SetPage(0)

	assert.Len(t, log.events, before)
	assert.Equal(t, []int{0}, m.SelectedIndices())
}

func TestSnapshot(t *testing.T) {
	m := New(WithPageSize(1), WithKeyField("id"))
	m.SetRecords(people())
	m.SelectAt(1, SelectionMulti)
	m.SetPage(1)

	s := m.Snapshot()
	assert.Equal(t, []string{"id", "name"}, s.Fields)
	assert.Equal(t, []string{"alice"}, names(s.Rows))
	assert.Equal(t, 1, s.RowOffset)
	assert.Equal(t, 2, s.Page())
	assert.Equal(t, 3, s.PageCount)
	assert.True(t, s.IsSelected(0))
	assert.False(t, s.IsSelected(1))
	assert.Equal(t, "id", s.KeyField)

	m.SetPage(0)
	assert.Equal(t, []string{"alice"}, names(s.Rows), "snapshot is not affected by later changes")
}

func TestStateAndRowAt(t *testing.T) {
	m := New(WithQuery("o"), WithSort("id", SortDescending), WithSelectionMode(SelectionSingle))
	m.SetRecords(people())

	st := m.State()
	assert.Equal(t, "o", st.Query)
	assert.Equal(t, "id:desc", st.Sort.String())
	assert.Equal(t, SelectionSingle, st.SelectionMode)

	rec, ok := m.RowAt(0)
	require.True(t, ok)
	assert.Equal(t, "Carol", rec["name"])
	_, ok = m.RowAt(5)
	assert.False(t, ok)
	assert.True(t, m.HasField("name"))
	assert.False(t, m.HasField("email"))
}

func TestPagingHelpers(t *testing.T) {
	m := New(WithPageSize(1))
	m.SetRecords(people())

	m.NextPage()
	m.NextPage()
	m.NextPage()
	assert.Equal(t, 2, m.State().PageIndex)
	m.PrevPage()
	assert.Equal(t, 1, m.State().PageIndex)
	assert.Equal(t, 1, m.PageOffset())
}
