package viewmodel

import (
	"fmt"
	"strings"
)

// SortDirection is the direction of the active sort
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAscending
	SortDescending
)

// String returns the direction name
func (d SortDirection) String() string {
	switch d {
	case SortAscending:
		return "ascending"
	case SortDescending:
		return "descending"
	default:
		return "none"
	}
}

// Next cycles none -> ascending -> descending -> none
func (d SortDirection) Next() SortDirection {
	switch d {
	case SortNone:
		return SortAscending
	case SortAscending:
		return SortDescending
	default:
		return SortNone
	}
}

// ParseSortDirection parses asc/ascending, desc/descending and none.
// An empty string means ascending.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	case "none", "off":
		return SortNone, nil
	}
	return SortNone, fmt.Errorf("invalid sort direction: %s (must be one of: asc, desc, none)", s)
}

// SelectionMode controls how SelectAt mutates the selection
type SelectionMode int

const (
	SelectionNone SelectionMode = iota
	SelectionSingle
	SelectionMulti
)

// String returns the mode name
func (m SelectionMode) String() string {
	switch m {
	case SelectionSingle:
		return "single"
	case SelectionMulti:
		return "multi"
	default:
		return "none"
	}
}

// ParseSelectionMode parses none, single and multi
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return SelectionNone, nil
	case "single":
		return SelectionSingle, nil
	case "multi", "multiple":
		return SelectionMulti, nil
	}
	return SelectionNone, fmt.Errorf("invalid selection mode: %s (must be one of: none, single, multi)", s)
}

// SortSpec names the sort column and direction
type SortSpec struct {
	Field     string        `json:"field,omitempty"`
	Direction SortDirection `json:"-"`
}

// Active reports whether the sort reorders anything
func (s SortSpec) Active() bool {
	return s.Field != "" && s.Direction != SortNone
}

// String renders the sort as field:asc or field:desc
func (s SortSpec) String() string {
	if !s.Active() {
		return "none"
	}
	if s.Direction == SortDescending {
		return s.Field + ":desc"
	}
	return s.Field + ":asc"
}

// ParseSortSpec parses "field", "field:asc" or "field:desc"
func ParseSortSpec(s string) (SortSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortSpec{}, nil
	}
	field, dir, hasDir := strings.Cut(s, ":")
	if !hasDir {
		// a bare none or off switches sorting off; use none:asc for such a field
		switch strings.ToLower(field) {
		case "none", "off":
			return SortSpec{}, nil
		}
	}
	direction, err := ParseSortDirection(dir)
	if err != nil {
		return SortSpec{}, err
	}
	return SortSpec{Field: strings.TrimSpace(field), Direction: direction}, nil
}

// State is the caller-controlled view state
type State struct {
	Query         string
	Sort          SortSpec
	PageIndex     int
	PageSize      int
	SelectionMode SelectionMode
	Selection     []int
}

// EventKind identifies a view-model notification
type EventKind int

const (
	// EventSelectionChanged fires when selection indices change without loss
	EventSelectionChanged EventKind = iota
	// EventSelectionPruned fires when some selected records left the view
	EventSelectionPruned
	// EventSelectionCleared fires when a non-empty selection became empty
	EventSelectionCleared
	// EventPageClamped fires when the page index was pulled back into range
	EventPageClamped
)

// String returns the event name
func (k EventKind) String() string {
	switch k {
	case EventSelectionChanged:
		return "selection changed"
	case EventSelectionPruned:
		return "selection pruned"
	case EventSelectionCleared:
		return "selection cleared"
	case EventPageClamped:
		return "page clamped"
	default:
		return "unknown"
	}
}

// Cause names the input change that produced an event
type Cause string

const (
	CauseSelect   Cause = "select"
	CauseClear    Cause = "clear"
	CauseQuery    Cause = "query"
	CauseSort     Cause = "sort"
	CauseRecords  Cause = "records"
	CausePage     Cause = "page"
	CausePageSize Cause = "page_size"
)

// Event carries the data of a notification directly
type Event struct {
	Kind         EventKind
	Cause        Cause
	Selection    []int
	Dropped      int
	PreviousPage int
	Page         int
}

// String renders a one-line description used in status bars and logs
func (e Event) String() string {
	switch e.Kind {
	case EventSelectionPruned:
		return fmt.Sprintf("%s: %d dropped after %s change", e.Kind, e.Dropped, e.Cause)
	case EventSelectionCleared:
		return fmt.Sprintf("%s after %s change", e.Kind, e.Cause)
	case EventPageClamped:
		return fmt.Sprintf("%s: %d -> %d", e.Kind, e.PreviousPage+1, e.Page+1)
	default:
		return fmt.Sprintf("%s: %d selected", e.Kind, len(e.Selection))
	}
}

// Listener receives events synchronously
type Listener func(Event)
