package viewmodel

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/tabview/internal/record"
)

// randomRecords builds records with a sequence number, a small-domain group
// (so ties are common) and an occasionally missing score
func randomRecords(rng *rand.Rand, n int) []record.Record {
	words := []string{"alpha", "Beta", "gamma", "DELTA", "beta"}
	out := make([]record.Record, n)
	for i := range out {
		rec := record.Record{
			"seq":   i,
			"group": words[rng.Intn(len(words))],
		}
		if rng.Intn(4) != 0 {
			rec["score"] = float64(rng.Intn(10))
		}
		out[i] = rec
	}
	return out
}

func seqs(records []record.Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r["seq"].(int)
	}
	return out
}

func TestFilterProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	queries := []string{"", "a", "BETA", "ga", "zzz", "1"}

	for round := 0; round < 20; round++ {
		records := randomRecords(rng, rng.Intn(30))
		for _, q := range queries {
			got := Filter(records, q)

			inInput := make(map[int]bool)
			for _, r := range records {
				inInput[r["seq"].(int)] = true
			}
			for _, r := range got {
				assert.True(t, inInput[r["seq"].(int)], "filtered record must come from input")
				assert.True(t, record.Matches(r, q))
			}
			assert.Equal(t, seqs(got), seqs(Filter(got, q)), "filter is idempotent")
		}
		assert.Len(t, Filter(records, ""), len(records))
	}
}

func TestSortIsStablePermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for round := 0; round < 20; round++ {
		records := randomRecords(rng, 1+rng.Intn(40))
		for _, dir := range []SortDirection{SortAscending, SortDescending} {
			got := Sort(records, SortSpec{Field: "group", Direction: dir})
			require.Len(t, got, len(records))
			assert.ElementsMatch(t, seqs(records), seqs(got))

			for i := 1; i < len(got); i++ {
				c := record.Compare(got[i-1]["group"], got[i]["group"])
				if dir == SortAscending {
					assert.LessOrEqual(t, c, 0)
				} else {
					assert.GreaterOrEqual(t, c, 0)
				}
				if c == 0 {
					assert.Less(t, got[i-1]["seq"], got[i]["seq"], "ties keep input order")
				}
			}
		}
	}
}

func TestSortMissingValuesLast(t *testing.T) {
	records := []record.Record{
		{"id": "a", "v": 2},
		{"id": "b"},
		{"id": "c", "v": 1},
		{"id": "d", "v": nil},
		{"id": "e", "v": 3},
	}

	ids := func(rs []record.Record) string {
		s := ""
		for _, r := range rs {
			s += r["id"].(string)
		}
		return s
	}

	assert.Equal(t, "caebd", ids(Sort(records, SortSpec{Field: "v", Direction: SortAscending})))
	assert.Equal(t, "eacbd", ids(Sort(records, SortSpec{Field: "v", Direction: SortDescending})))
	assert.Equal(t, "abcde", ids(Sort(records, SortSpec{Field: "v", Direction: SortNone})))
	assert.Equal(t, "abcde", ids(Sort(records, SortSpec{Field: "unknown", Direction: SortAscending})))
	assert.Equal(t, "abcde", ids(Sort(records, SortSpec{})))
}

func TestPagesReconstructSortedSet(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for round := 0; round < 20; round++ {
		records := randomRecords(rng, rng.Intn(25))
		ordered := Sort(Filter(records, "a"), SortSpec{Field: "score", Direction: SortAscending})

		for p := 1; p <= 6; p++ {
			t.Run(fmt.Sprintf("round%d/size%d", round, p), func(t *testing.T) {
				var all []record.Record
				for page := 0; page < PageCount(len(ordered), p); page++ {
					chunk := Paginate(ordered, page, p)
					assert.LessOrEqual(t, len(chunk), p)
					all = append(all, chunk...)
				}
				assert.Equal(t, seqs(ordered), seqs(all))
			})
		}

		for _, p := range []int{0, -1, -10} {
			assert.Equal(t, seqs(ordered), seqs(Paginate(ordered, 3, p)))
			assert.Equal(t, 1, PageCount(len(ordered), p))
		}
	}
}

func TestPageCountAndClamp(t *testing.T) {
	tests := []struct {
		name      string
		n, size   int
		page      int
		wantCount int
		wantPage  int
	}{
		{"empty set", 0, 5, 3, 1, 0},
		{"exact pages", 6, 3, 1, 2, 1},
		{"partial last page", 7, 3, 9, 3, 2},
		{"negative index", 7, 3, -2, 3, 0},
		{"no pagination", 7, 0, 4, 1, 0},
		{"max page size", 5, math.MaxInt, 3, 1, 0},
		{"near max page size", 5, math.MaxInt - 1, 3, 1, 0},
		{"max items", math.MaxInt, 2, math.MaxInt, math.MaxInt/2 + 1, math.MaxInt / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCount, PageCount(tt.n, tt.size))
			assert.Equal(t, tt.wantPage, ClampPage(tt.page, tt.n, tt.size))
		})
	}
}

func TestPaginateClampsOutOfRange(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, items, Paginate(items, 2, math.MaxInt))
	assert.Equal(t, []int{3, 4}, Paginate(items, 1, 2))
	assert.Equal(t, []int{5}, Paginate(items, 9, 2))
	assert.Equal(t, []int{1, 2}, Paginate(items, -1, 2))
	assert.Equal(t, []int{}, Paginate([]int{}, 0, 2))
}

func TestParseSortSpec(t *testing.T) {
	tests := []struct {
		input   string
		want    SortSpec
		wantErr bool
	}{
		{"", SortSpec{}, false},
		{"name", SortSpec{Field: "name", Direction: SortAscending}, false},
		{"age:desc", SortSpec{Field: "age", Direction: SortDescending}, false},
		{"age:DESCENDING", SortSpec{Field: "age", Direction: SortDescending}, false},
		{"age:none", SortSpec{Field: "age", Direction: SortNone}, false},
		{"none", SortSpec{}, false},
		{"OFF", SortSpec{}, false},
		{"none:asc", SortSpec{Field: "none", Direction: SortAscending}, false},
		{"age:sideways", SortSpec{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortSpec(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortDirectionCycle(t *testing.T) {
	d := SortNone
	d = d.Next()
	assert.Equal(t, SortAscending, d)
	d = d.Next()
	assert.Equal(t, SortDescending, d)
	assert.Equal(t, SortNone, d.Next())
}

func TestParseSelectionMode(t *testing.T) {
	mode, err := ParseSelectionMode("Multi")
	require.NoError(t, err)
	assert.Equal(t, SelectionMulti, mode)

	_, err = ParseSelectionMode("many")
	assert.Error(t, err)
}
