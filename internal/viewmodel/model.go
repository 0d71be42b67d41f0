package viewmodel

import (
	"time"

	"github.com/yildizm/tabview/internal/logger"
	"github.com/yildizm/tabview/internal/record"
)

// DefaultPageSize is used when no page size option is given
const DefaultPageSize = 20

// TableViewModel derives the visible rows of a record set through
// filter -> sort -> paginate and tracks a selection over the
// filtered+sorted order. It is not safe for concurrent use.
type TableViewModel struct {
	records []record.Record
	fields  []string

	query     string
	sort      SortSpec
	pageIndex int
	pageSize  int
	mode      SelectionMode
	keyField  string

	// order holds raw positions of the filtered+sorted set
	order []int
	// ids caches the identity of each raw position
	ids []string

	selected map[string]struct{}
	indices  []int

	listener Listener
	log      *logger.Logger
}

// Option configures a TableViewModel
type Option func(*TableViewModel)

// WithSelectionMode sets the mode used by Select
func WithSelectionMode(mode SelectionMode) Option {
	return func(m *TableViewModel) { m.mode = mode }
}

// WithKeyField names the field whose value identifies a record
func WithKeyField(field string) Option {
	return func(m *TableViewModel) { m.keyField = field }
}

// WithPageSize sets the initial page size; <= 0 disables pagination
func WithPageSize(size int) Option {
	return func(m *TableViewModel) { m.pageSize = normalizePageSize(size) }
}

// WithListener registers the event listener
func WithListener(l Listener) Option {
	return func(m *TableViewModel) { m.listener = l }
}

// WithLogger sets the logger used for debug output
func WithLogger(l *logger.Logger) Option {
	return func(m *TableViewModel) { m.log = l }
}

// WithSort sets the initial sort
func WithSort(field string, direction SortDirection) Option {
	return func(m *TableViewModel) { m.sort = SortSpec{Field: field, Direction: direction} }
}

// WithQuery sets the initial query
func WithQuery(query string) Option {
	return func(m *TableViewModel) { m.query = query }
}

// New creates an empty view-model
func New(opts ...Option) *TableViewModel {
	m := &TableViewModel{
		pageSize: DefaultPageSize,
		mode:     SelectionMulti,
		selected: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.recompute()
	return m
}

func normalizePageSize(size int) int {
	if size < 0 {
		return 0
	}
	return size
}

// SetRecords replaces the record set. Anything that is not a sequence of
// objects is treated as an empty set.
func (m *TableViewModel) SetRecords(v any) {
	records, ok := record.FromAny(v)
	if !ok {
		m.log.Debug("input is not a sequence of objects, using empty set")
	}
	m.SetRecordSlice(records)
}

// SetRecordSlice replaces the record set with records
func (m *TableViewModel) SetRecordSlice(records []record.Record) {
	prev := m.selectionSnapshot()

	m.records = records
	m.fields = record.DiscoverFields(records)

	if m.keyField == "" {
		clear(m.selected)
	} else {
		// raw-position identities no longer denote the same records
		for id := range m.selected {
			if !isKeyIdentity(id) {
				delete(m.selected, id)
			}
		}
	}

	m.recompute()
	m.afterDerivedChange(prev, CauseRecords)
}

// SetQuery updates the free-text filter
func (m *TableViewModel) SetQuery(query string) {
	if query == m.query {
		return
	}
	prev := m.selectionSnapshot()
	m.query = query
	m.recompute()
	m.afterDerivedChange(prev, CauseQuery)
}

// SetSort updates the sort column and direction
func (m *TableViewModel) SetSort(field string, direction SortDirection) {
	spec := SortSpec{Field: field, Direction: direction}
	if spec == m.sort {
		return
	}
	prev := m.selectionSnapshot()
	m.sort = spec
	m.recompute()
	m.afterDerivedChange(prev, CauseSort)
}

// SetPage moves to page index, clamped into range
func (m *TableViewModel) SetPage(index int) {
	m.setPage(index, CausePage)
}

// SetPageSize changes the page size; <= 0 disables pagination
func (m *TableViewModel) SetPageSize(size int) {
	size = normalizePageSize(size)
	if size == m.pageSize {
		return
	}
	m.pageSize = size
	m.setPage(m.pageIndex, CausePageSize)
}

func (m *TableViewModel) setPage(index int, cause Cause) {
	clamped := ClampPage(index, len(m.order), m.pageSize)
	previous := m.pageIndex
	m.pageIndex = clamped
	if clamped != index {
		m.emit(Event{Kind: EventPageClamped, Cause: cause, PreviousPage: index, Page: clamped})
	} else if cause != CausePage && clamped != previous {
		m.emit(Event{Kind: EventPageClamped, Cause: cause, PreviousPage: previous, Page: clamped})
	}
}

// NextPage moves one page forward if possible
func (m *TableViewModel) NextPage() {
	if m.pageIndex < m.PageCount()-1 {
		m.SetPage(m.pageIndex + 1)
	}
}

// PrevPage moves one page back if possible
func (m *TableViewModel) PrevPage() {
	if m.pageIndex > 0 {
		m.SetPage(m.pageIndex - 1)
	}
}

// SetSelectionMode changes the mode used by Select. Switching to single
// keeps only the first selected index; switching to none clears.
func (m *TableViewModel) SetSelectionMode(mode SelectionMode) {
	if mode == m.mode {
		return
	}
	m.mode = mode
	switch {
	case mode == SelectionNone:
		m.ClearSelection()
	case mode == SelectionSingle && len(m.indices) > 1:
		first := m.indices[0]
		m.replaceSelection([]int{first})
		m.emit(Event{Kind: EventSelectionChanged, Cause: CauseSelect, Selection: m.SelectedIndices()})
	}
}

// recompute rebuilds identities and the filtered+sorted order, then
// remaps the selection and clamps the page
func (m *TableViewModel) recompute() {
	start := time.Now()

	m.ids = m.identities()
	positions := identity(len(m.records))
	positions = filterIndices(m.records, positions, m.query)
	m.order = sortIndices(m.records, positions, m.sort)

	m.indices = m.indices[:0]
	found := make(map[string]struct{}, len(m.selected))
	for i, pos := range m.order {
		id := m.ids[pos]
		if _, ok := m.selected[id]; ok {
			m.indices = append(m.indices, i)
			found[id] = struct{}{}
		}
	}
	for id := range m.selected {
		if _, ok := found[id]; !ok {
			delete(m.selected, id)
		}
	}

	m.log.DebugWithFields("recomputed view", []logger.Field{
		logger.F("total", len(m.records)),
		logger.F("filtered", len(m.order)),
		logger.F("selected", len(m.indices)),
		logger.Duration(time.Since(start)),
	})
}

// afterDerivedChange emits selection and page events after the order changed
func (m *TableViewModel) afterDerivedChange(prev selectionState, cause Cause) {
	switch {
	case prev.count > 0 && len(m.indices) == 0:
		m.emit(Event{Kind: EventSelectionCleared, Cause: cause, Dropped: prev.count})
	case len(m.indices) < prev.count:
		m.emit(Event{
			Kind:      EventSelectionPruned,
			Cause:     cause,
			Dropped:   prev.count - len(m.indices),
			Selection: m.SelectedIndices(),
		})
	case !equalInts(prev.indices, m.indices):
		m.emit(Event{Kind: EventSelectionChanged, Cause: cause, Selection: m.SelectedIndices()})
	}

	previous := m.pageIndex
	m.pageIndex = ClampPage(m.pageIndex, len(m.order), m.pageSize)
	if m.pageIndex != previous {
		m.emit(Event{Kind: EventPageClamped, Cause: cause, PreviousPage: previous, Page: m.pageIndex})
	}
}

func (m *TableViewModel) emit(e Event) {
	m.log.Debug("event: %s", e)
	if m.listener != nil {
		m.listener(e)
	}
}

type selectionState struct {
	count   int
	indices []int
}

func (m *TableViewModel) selectionSnapshot() selectionState {
	return selectionState{count: len(m.indices), indices: append([]int(nil), m.indices...)}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// VisibleRows returns the current page of the filtered+sorted set
func (m *TableViewModel) VisibleRows() []record.Record {
	return pick(m.records, Paginate(m.order, m.pageIndex, m.pageSize))
}

// Rows returns the whole filtered+sorted set
func (m *TableViewModel) Rows() []record.Record {
	return pick(m.records, m.order)
}

// RowAt returns the record at a filtered+sorted position
func (m *TableViewModel) RowAt(index int) (record.Record, bool) {
	if index < 0 || index >= len(m.order) {
		return nil, false
	}
	return m.records[m.order[index]], true
}

// State returns a copy of the view state
func (m *TableViewModel) State() State {
	return State{
		Query:         m.query,
		Sort:          m.sort,
		PageIndex:     m.pageIndex,
		PageSize:      m.pageSize,
		SelectionMode: m.mode,
		Selection:     m.SelectedIndices(),
	}
}

// FilteredCount returns the size of the filtered set
func (m *TableViewModel) FilteredCount() int {
	return len(m.order)
}

// TotalCount returns the size of the raw record set
func (m *TableViewModel) TotalCount() int {
	return len(m.records)
}

// PageCount returns the number of pages of the filtered set
func (m *TableViewModel) PageCount() int {
	return PageCount(len(m.order), m.pageSize)
}

// PageOffset returns the filtered+sorted index of the first visible row
func (m *TableViewModel) PageOffset() int {
	if m.pageSize <= 0 {
		return 0
	}
	return m.pageIndex * m.pageSize
}

// Fields returns the discovered field names
func (m *TableViewModel) Fields() []string {
	return append([]string(nil), m.fields...)
}

// HasField reports whether any record carries field
func (m *TableViewModel) HasField(field string) bool {
	return HasField(m.records, field)
}

// KeyField returns the configured key field
func (m *TableViewModel) KeyField() string {
	return m.keyField
}
