package pipeline

import (
	"time"

	"arbodash/domain/notification"
)

// Set is a membership set for one filter dimension
type Set[T comparable] map[T]struct{}

// NewSet builds a set from values. NewSet() with no values is an empty,
// non-nil set and therefore selects nothing.
func NewSet[T comparable](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// DateRange is an inclusive interval of calendar days. A zero bound leaves
// that side open.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Bounded reports whether either side is set
func (r DateRange) Bounded() bool {
	return !r.From.IsZero() || !r.To.IsZero()
}

// Contains reports whether t falls on a day within the range
func (r DateRange) Contains(t time.Time) bool {
	day := truncateDay(t)
	if !r.From.IsZero() && day.Before(truncateDay(r.From)) {
		return false
	}
	if !r.To.IsZero() && day.After(truncateDay(r.To)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Selection holds the chosen values for each filter dimension. A nil set
// leaves its dimension unconstrained; a non-nil empty set selects nothing.
type Selection struct {
	Years          Set[int64]
	Diseases       Set[string]
	Municipalities Set[string]
	Sexes          Set[string]
	Races          Set[string]
	Groups         Set[notification.StudyGroup]
	Notified       DateRange
}

// Predicates returns one predicate per constrained dimension
func (s Selection) Predicates() []Predicate {
	var preds []Predicate
	if s.Years != nil {
		preds = append(preds, YearIn(s.Years))
	}
	if s.Diseases != nil {
		preds = append(preds, DiseaseIn(s.Diseases))
	}
	if s.Municipalities != nil {
		preds = append(preds, MunicipalityIn(s.Municipalities))
	}
	if s.Sexes != nil {
		preds = append(preds, SexIn(s.Sexes))
	}
	if s.Races != nil {
		preds = append(preds, RaceIn(s.Races))
	}
	if s.Groups != nil {
		preds = append(preds, GroupIn(s.Groups))
	}
	if s.Notified.Bounded() {
		preds = append(preds, NotifiedWithin(s.Notified))
	}
	return preds
}

// Restrict returns a copy of s keeping only the listed dimensions
// constrained. The date interval is kept when keepDates is true.
func (s Selection) Restrict(dims []Dimension, keepDates bool) Selection {
	out := Selection{}
	for _, d := range dims {
		switch d {
		case DimYear:
			out.Years = s.Years
		case DimDisease:
			out.Diseases = s.Diseases
		case DimMunicipality:
			out.Municipalities = s.Municipalities
		case DimSex:
			out.Sexes = s.Sexes
		case DimRace:
			out.Races = s.Races
		case DimGroup:
			out.Groups = s.Groups
		}
	}
	if keepDates {
		out.Notified = s.Notified
	}
	return out
}

// FullSelection selects every value present in table, spanning its full
// notification date range. This is the dashboard's default state. Blank
// municipality, sex and race values are selected too, so the default keeps
// every row that has a year and a notification date.
func FullSelection(table *notification.Table) Selection {
	sel := Selection{
		Years:          NewSet[int64](),
		Diseases:       NewSet[string](),
		Municipalities: NewSet[string](),
		Sexes:          NewSet[string](),
		Races:          NewSet[string](),
		Groups:         NewSet[notification.StudyGroup](),
	}
	for i := range table.Records {
		r := &table.Records[i]
		if r.Year.Valid {
			sel.Years[r.Year.Int64] = struct{}{}
		}
		sel.Diseases[r.Disease] = struct{}{}
		sel.Municipalities[r.Municipality()] = struct{}{}
		sel.Sexes[r.Sex] = struct{}{}
		sel.Races[r.Race] = struct{}{}
		sel.Groups[r.Group] = struct{}{}
	}
	if from, to, ok := DateBounds(table); ok {
		sel.Notified = DateRange{From: from, To: to}
	}
	return sel
}

// YearRange returns a set holding every year in [from, to]
func YearRange(from, to int64) Set[int64] {
	s := NewSet[int64]()
	for y := from; y <= to; y++ {
		s[y] = struct{}{}
	}
	return s
}
