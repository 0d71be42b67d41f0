package record

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a value for ordering and type projection
type Kind string

const (
	KindNull   Kind = "null"
	KindNumber Kind = "number"
	KindTime   Kind = "time"
	KindString Kind = "string"
	KindBool   Kind = "bool"
	KindAny    Kind = "any"
)

// kindRank orders values of different kinds against each other
var kindRank = map[Kind]int{
	KindNull:   0,
	KindNumber: 1,
	KindTime:   2,
	KindString: 3,
	KindBool:   4,
	KindAny:    5,
}

// timeLayouts are tried in order when coercing text to time
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseKind parses a kind name
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindNumber:
		return KindNumber, true
	case KindTime:
		return KindTime, true
	case KindString:
		return KindString, true
	case KindBool:
		return KindBool, true
	case KindAny, "":
		return KindAny, true
	}
	return KindAny, false
}

// KindOf returns the kind of a value
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case bool:
		return KindBool
	case time.Time:
		return KindTime
	}
	if _, ok := toFloat(v); ok {
		return KindNumber
	}
	return KindAny
}

// toFloat converts any Go numeric value to float64
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Compare orders two values: numbers numerically, times chronologically,
// strings case-insensitively and bools false before true. Values of
// different kinds are ordered by kind. Returns -1, 0 or 1.
func Compare(a, b any) int {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return compareInts(kindRank[ka], kindRank[kb])
	}

	switch ka {
	case KindNull:
		return 0
	case KindNumber:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		return compareFloats(fa, fb)
	case KindTime:
		return a.(time.Time).Compare(b.(time.Time))
	case KindString:
		return strings.Compare(strings.ToLower(a.(string)), strings.ToLower(b.(string)))
	case KindBool:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		default:
			return 1
		}
	default:
		return strings.Compare(strings.ToLower(Stringify(a)), strings.ToLower(Stringify(b)))
	}
}

// compareFloats orders NaN before every other number
func compareFloats(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Shape describes the expected kind of each known field
type Shape map[string]Kind

// Fields returns the shape's field names in sorted order
func (s Shape) Fields() []string {
	fields := make([]string, 0, len(s))
	for f := range s {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Apply returns copies of records with every shaped field coerced to its kind.
// Fields not described by the shape are copied unchanged.
func (s Shape) Apply(records []Record) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		projected := make(Record, len(rec))
		for k, v := range rec {
			if kind, ok := s[k]; ok {
				projected[k] = Coerce(v, kind)
			} else {
				projected[k] = v
			}
		}
		out[i] = projected
	}
	return out
}

// Coerce converts a value to kind. Text that cannot be converted is kept as
// is; blank text becomes nil so it is treated as missing.
func Coerce(v any, kind Kind) any {
	text, isText := v.(string)
	if !isText {
		return v
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" && kind != KindString && kind != KindAny {
		return nil
	}

	switch kind {
	case KindNumber:
		if f, ok := parseNumber(trimmed); ok {
			return f
		}
	case KindBool:
		if b, err := strconv.ParseBool(trimmed); err == nil {
			return b
		}
	case KindTime:
		if t, ok := parseTime(trimmed); ok {
			return t
		}
	}
	return v
}

// InferShape inspects textual values and picks the narrowest kind every
// non-blank value of a field can be converted to
func InferShape(records []Record) Shape {
	candidates := make(map[string]map[Kind]bool)

	for _, rec := range records {
		for field, v := range rec {
			possible, ok := candidates[field]
			if !ok {
				possible = map[Kind]bool{KindNumber: true, KindBool: true, KindTime: true}
				candidates[field] = possible
			}
			narrowCandidates(possible, v)
		}
	}

	shape := make(Shape, len(candidates))
	for field, possible := range candidates {
		switch {
		case possible[KindNumber]:
			shape[field] = KindNumber
		case possible[KindTime]:
			shape[field] = KindTime
		case possible[KindBool]:
			shape[field] = KindBool
		default:
			shape[field] = KindString
		}
	}
	return shape
}

func narrowCandidates(possible map[Kind]bool, v any) {
	text, isText := v.(string)
	if !isText {
		kind := KindOf(v)
		for k := range possible {
			if k != kind && kind != KindNull {
				possible[k] = false
			}
		}
		return
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	if _, ok := parseNumber(trimmed); !ok {
		possible[KindNumber] = false
	}
	if _, err := strconv.ParseBool(trimmed); err != nil {
		possible[KindBool] = false
	}
	if _, ok := parseTime(trimmed); !ok {
		possible[KindTime] = false
	}
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
