package viewmodel

import (
	"sort"

	"github.com/yildizm/tabview/internal/record"
)

// Filter returns the records matching query in input order
func Filter(records []record.Record, query string) []record.Record {
	return pick(records, filterIndices(records, identity(len(records)), query))
}

// Sort returns records reordered by spec. The sort is stable and records
// missing the sort field go last in either direction. A sort naming a field
// no record carries leaves the input order unchanged.
func Sort(records []record.Record, spec SortSpec) []record.Record {
	return pick(records, sortIndices(records, identity(len(records)), spec))
}

// Paginate returns page pageIndex of items. A pageSize <= 0 disables
// pagination and returns every item; an out-of-range page is clamped.
func Paginate[T any](items []T, pageIndex, pageSize int) []T {
	if pageSize <= 0 {
		return append([]T(nil), items...)
	}
	pageIndex = ClampPage(pageIndex, len(items), pageSize)
	start := pageIndex * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + min(pageSize, len(items)-start)
	return append([]T(nil), items[start:end]...)
}

// PageCount returns the number of pages for n items. An empty set and a
// disabled pagination both have exactly one page.
func PageCount(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	return (n-1)/pageSize + 1
}

// ClampPage pulls pageIndex into [0, PageCount(n, pageSize)-1]
func ClampPage(pageIndex, n, pageSize int) int {
	if pageSize <= 0 || pageIndex < 0 {
		return 0
	}
	last := PageCount(n, pageSize) - 1
	if pageIndex > last {
		return last
	}
	return pageIndex
}

// HasField reports whether any record carries field
func HasField(records []record.Record, field string) bool {
	for _, rec := range records {
		if _, ok := rec.Get(field); ok {
			return true
		}
	}
	return false
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func pick(records []record.Record, positions []int) []record.Record {
	out := make([]record.Record, len(positions))
	for i, pos := range positions {
		out[i] = records[pos]
	}
	return out
}

// filterIndices keeps the positions whose record matches query
func filterIndices(records []record.Record, positions []int, query string) []int {
	matcher := record.NewMatcher(query)
	out := make([]int, 0, len(positions))
	for _, pos := range positions {
		if matcher.Match(records[pos]) {
			out = append(out, pos)
		}
	}
	return out
}

type sortEntry struct {
	pos     int
	value   any
	missing bool
}

// sortIndices stably orders positions by the sort field
func sortIndices(records []record.Record, positions []int, spec SortSpec) []int {
	out := append([]int(nil), positions...)
	if !spec.Active() {
		return out
	}

	entries := make([]sortEntry, len(out))
	known := false
	for i, pos := range out {
		v, ok := records[pos].Get(spec.Field)
		known = known || ok
		entries[i] = sortEntry{pos: pos, value: v, missing: !ok || v == nil}
	}
	if !known {
		return out
	}

	descending := spec.Direction == SortDescending
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.missing || b.missing {
			return !a.missing && b.missing
		}
		c := record.Compare(a.value, b.value)
		if descending {
			return c > 0
		}
		return c < 0
	})

	for i, e := range entries {
		out[i] = e.pos
	}
	return out
}
