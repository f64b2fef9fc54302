// Package impact estimates the effect of the ESP declaration on case counts
// with interrupted time series and difference-in-differences regressions.
package impact

import (
	"strings"
	"time"

	"arbodash/domain/notification"
	"arbodash/internal/errors"
)

// Period is the aggregation unit of a model
type Period string

const (
	Weekly Period = "week"
	Yearly Period = "year"
)

// ParsePeriod validates a period name from user input. Empty means weekly.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", Weekly, "weekly":
		return Weekly, nil
	case Yearly, "yearly":
		return Yearly, nil
	}
	return "", errors.InvalidInput("unknown period: " + s)
}

// Start returns the first instant of the period containing t. Weeks start
// on Monday.
func (p Period) Start(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	if p == Yearly {
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Next returns the start of the period following start
func (p Period) Next(start time.Time) time.Time {
	if p == Yearly {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 0, 7)
}

// IsPost reports whether the period beginning at start contains or follows
// the intervention date
func (p Period) IsPost(start, intervention time.Time) bool {
	return p.Next(start).After(intervention)
}

// Bucket is the case count of one period
type Bucket struct {
	Start time.Time `json:"start"`
	Count float64   `json:"count"`
}

// Counts aggregates records with a notification date into consecutive
// periods, filling gaps between the first and last period with zeros.
// keep, when non-nil, restricts which records are counted while the period
// span still covers the whole table.
func Counts(table *notification.Table, period Period, keep func(*notification.Record) bool) []Bucket {
	var first, last time.Time
	byStart := make(map[time.Time]float64)
	seen := false

	for i := range table.Records {
		r := &table.Records[i]
		if !r.NotifiedAt.Valid {
			continue
		}
		start := period.Start(r.NotifiedAt.Time)
		if !seen || start.Before(first) {
			first = start
		}
		if !seen || start.After(last) {
			last = start
		}
		seen = true
		if keep == nil || keep(r) {
			byStart[start]++
		}
	}
	if !seen {
		return nil
	}

	var buckets []Bucket
	for s := first; !s.After(last); s = period.Next(s) {
		buckets = append(buckets, Bucket{Start: s, Count: byStart[s]})
	}
	return buckets
}
