package record

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Record is one logical row of input data, keyed by field name
type Record map[string]any

// Get returns the value stored under field and whether the field is present
func (r Record) Get(field string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[field]
	return v, ok
}

// Has reports whether field is present and not nil
func (r Record) Has(field string) bool {
	v, ok := r.Get(field)
	return ok && v != nil
}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FromAny converts externally supplied data into records.
// Only a sequence whose every element is an object is accepted; anything else
// reports ok=false and callers fall back to an empty set.
func FromAny(v any) ([]Record, bool) {
	switch data := v.(type) {
	case []Record:
		for _, rec := range data {
			if rec == nil {
				return nil, false
			}
		}
		return data, true
	case []map[string]any:
		out := make([]Record, 0, len(data))
		for _, m := range data {
			if m == nil {
				return nil, false
			}
			out = append(out, Record(m))
		}
		return out, true
	case []any:
		out := make([]Record, 0, len(data))
		for _, item := range data {
			rec, ok := asRecord(item)
			if !ok {
				return nil, false
			}
			out = append(out, rec)
		}
		return out, true
	}
	return nil, false
}

func asRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, m != nil
	case map[string]any:
		return Record(m), m != nil
	}
	return nil, false
}

// DiscoverFields returns the field names carried by records.
// Fields of the first record come first (sorted), followed by fields first
// seen on later records in encounter order.
func DiscoverFields(records []Record) []string {
	seen := make(map[string]bool)
	var fields []string

	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			if !seen[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			seen[k] = true
			fields = append(fields, k)
		}
	}

	return fields
}

// Stringify returns the canonical string form of a value as used for
// free-text matching and display
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339)
	case Record, map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Matcher performs case-insensitive substring matching against every field
// value of a record
type Matcher struct {
	folded string
}

// NewMatcher creates a matcher for query
func NewMatcher(query string) Matcher {
	return Matcher{folded: strings.ToLower(query)}
}

// Match reports whether any field value of rec contains the query.
// An empty query matches every record.
func (m Matcher) Match(rec Record) bool {
	if m.folded == "" {
		return true
	}
	for _, v := range rec {
		if strings.Contains(strings.ToLower(Stringify(v)), m.folded) {
			return true
		}
	}
	return false
}

// Matches is a convenience wrapper around NewMatcher(query).Match(rec)
func Matches(rec Record, query string) bool {
	return NewMatcher(query).Match(rec)
}
