package pipeline

import (
	"slices"
	"sort"
	"strings"
	"time"

	"arbodash/domain/notification"
)

// GroupCount is the number of records sharing one combination of keys
type GroupCount struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// Counts is the result of grouping a table by a list of dimensions
type Counts struct {
	Dims []Dimension  `json:"dims"`
	Rows []GroupCount `json:"rows"`
}

// Total sums the counts of every row
func (c *Counts) Total() int {
	total := 0
	for _, row := range c.Rows {
		total += row.Count
	}
	return total
}

// Lookup returns the count for an exact key combination
func (c *Counts) Lookup(keys ...string) int {
	for _, row := range c.Rows {
		if slices.Equal(row.Keys, keys) {
			return row.Count
		}
	}
	return 0
}

// SortByCountDesc orders rows by count, largest first, keeping key order for
// ties
func (c *Counts) SortByCountDesc() {
	sort.SliceStable(c.Rows, func(i, j int) bool { return c.Rows[i].Count > c.Rows[j].Count })
}

// CountBy counts records per combination of dims. Records missing a value
// for any of the dims are not counted. Rows are ordered by key.
func CountBy(table *notification.Table, dims ...Dimension) *Counts {
	index := make(map[string]int)
	out := &Counts{Dims: dims}

	keys := make([]string, len(dims))
	for i := range table.Records {
		r := &table.Records[i]
		missing := false
		for d, dim := range dims {
			keys[d] = dim.Value(r)
			if keys[d] == "" {
				missing = true
				break
			}
		}
		if missing {
			continue
		}

		id := strings.Join(keys, "\x00")
		if pos, ok := index[id]; ok {
			out.Rows[pos].Count++
			continue
		}
		index[id] = len(out.Rows)
		out.Rows = append(out.Rows, GroupCount{Keys: append([]string(nil), keys...), Count: 1})
	}

	sort.Slice(out.Rows, func(i, j int) bool {
		a, b := out.Rows[i].Keys, out.Rows[j].Keys
		for d, dim := range dims {
			if a[d] != b[d] {
				return dim.less(a[d], b[d])
			}
		}
		return false
	})
	return out
}

// Distinct returns the sorted non-empty values of dim present in table
func Distinct(table *notification.Table, dim Dimension) []string {
	seen := make(map[string]struct{})
	var values []string
	for i := range table.Records {
		v := dim.Value(&table.Records[i])
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	sort.Slice(values, func(i, j int) bool { return dim.less(values[i], values[j]) })
	return values
}

// YearBounds returns the smallest and largest year in table. ok is false
// when no record has a year.
func YearBounds(table *notification.Table) (lo, hi int64, ok bool) {
	for i := range table.Records {
		y := table.Records[i].Year
		if !y.Valid {
			continue
		}
		if !ok || y.Int64 < lo {
			lo = y.Int64
		}
		if !ok || y.Int64 > hi {
			hi = y.Int64
		}
		ok = true
	}
	return lo, hi, ok
}

// DateBounds returns the earliest and latest notification date in table
func DateBounds(table *notification.Table) (from, to time.Time, ok bool) {
	for i := range table.Records {
		n := table.Records[i].NotifiedAt
		if !n.Valid {
			continue
		}
		if !ok || n.Time.Before(from) {
			from = n.Time
		}
		if !ok || n.Time.After(to) {
			to = n.Time
		}
		ok = true
	}
	return from, to, ok
}
