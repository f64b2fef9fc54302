package pipeline

import (
	"arbodash/domain/notification"
	"arbodash/internal/errors"
)

// Predicate decides whether a record is kept
type Predicate func(r *notification.Record) bool

// YearIn keeps records whose year is selected. Records without a year are
// dropped.
func YearIn(years Set[int64]) Predicate {
	return func(r *notification.Record) bool {
		return r.Year.Valid && years.Has(r.Year.Int64)
	}
}

// DiseaseIn keeps records whose disease code is selected
func DiseaseIn(diseases Set[string]) Predicate {
	return func(r *notification.Record) bool { return diseases.Has(r.Disease) }
}

// MunicipalityIn matches on the display name, falling back to the identifier
func MunicipalityIn(municipalities Set[string]) Predicate {
	return func(r *notification.Record) bool { return municipalities.Has(r.Municipality()) }
}

// SexIn keeps records whose sex is selected
func SexIn(sexes Set[string]) Predicate {
	return func(r *notification.Record) bool { return sexes.Has(r.Sex) }
}

// RaceIn keeps records whose race is selected
func RaceIn(races Set[string]) Predicate {
	return func(r *notification.Record) bool { return races.Has(r.Race) }
}

// GroupIn keeps records whose study group is selected
func GroupIn(groups Set[notification.StudyGroup]) Predicate {
	return func(r *notification.Record) bool { return groups.Has(r.Group) }
}

// NotifiedWithin keeps records notified inside the range. A null
// notification date never satisfies a bounded range.
func NotifiedWithin(rng DateRange) Predicate {
	return func(r *notification.Record) bool {
		return r.NotifiedAt.Valid && rng.Contains(r.NotifiedAt.Time)
	}
}

// Filter returns the records of table satisfying every predicate. The input
// table is not modified; the result holds copies of the kept records.
func Filter(table *notification.Table, preds ...Predicate) *notification.Table {
	kept := make([]notification.Record, 0, table.Len()/2)
	for i := range table.Records {
		r := &table.Records[i]
		if matches(r, preds) {
			kept = append(kept, *r)
		}
	}
	return table.WithRecords(kept)
}

// Apply filters table by every constrained dimension of sel
func Apply(table *notification.Table, sel Selection) *notification.Table {
	return Filter(table, sel.Predicates()...)
}

func matches(r *notification.Record, preds []Predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// RequireRows reports an EMPTY_RESULT error when table has no records, so
// callers never compute ranges or ratios over zero rows
func RequireRows(table *notification.Table) error {
	if table.IsEmpty() {
		return errors.EmptyResult("no records match the selected filters")
	}
	return nil
}
