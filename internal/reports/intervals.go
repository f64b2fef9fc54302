package reports

import (
	"arbodash/domain/notification"
	"arbodash/internal/errors"

	"github.com/montanaflynn/stats"
	"gopkg.in/guregu/null.v3"
)

const (
	IntervalOnsetToNotification   = "dias_sintomas_ate_notif"
	IntervalNotificationToClosure = "dias_notif_ate_encerramento"
)

// IntervalSummary describes the distribution of one date interval in days
type IntervalSummary struct {
	Name   string     `json:"name"`
	Count  int        `json:"count"`
	Mean   float64    `json:"mean"`
	StdDev null.Float `json:"std"`
	Min    float64    `json:"min"`
	Q25    float64    `json:"q25"`
	Median float64    `json:"median"`
	Q75    float64    `json:"q75"`
	Max    float64    `json:"max"`
}

// ClinicalIntervals measures days from symptom onset to notification and
// from notification to closure, over records carrying all three dates
func ClinicalIntervals(table *notification.Table) ([]IntervalSummary, error) {
	var onset, closure []float64
	for i := range table.Records {
		r := &table.Records[i]
		if !r.NotifiedAt.Valid || !r.SymptomOnsetAt.Valid || !r.ClosedAt.Valid {
			continue
		}
		onset = append(onset, days(r.SymptomOnsetAt, r.NotifiedAt))
		closure = append(closure, days(r.NotifiedAt, r.ClosedAt))
	}
	if len(onset) == 0 {
		return nil, errors.EmptyResult("no records with onset, notification and closure dates")
	}

	a, err := Describe(IntervalOnsetToNotification, onset)
	if err != nil {
		return nil, err
	}
	b, err := Describe(IntervalNotificationToClosure, closure)
	if err != nil {
		return nil, err
	}
	return []IntervalSummary{a, b}, nil
}

// whole days between two instants, truncated toward zero
func days(from, to null.Time) float64 {
	return float64(int64(to.Time.Sub(from.Time).Hours() / 24))
}

// Describe summarizes data: count, mean, sample standard deviation,
// extremes and quartiles
func Describe(name string, data []float64) (IntervalSummary, error) {
	s := IntervalSummary{Name: name, Count: len(data)}
	if len(data) == 0 {
		return s, errors.EmptyResult("no values to describe")
	}

	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, errors.Wrap(err, "failed to compute mean")
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, errors.Wrap(err, "failed to compute min")
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, errors.Wrap(err, "failed to compute max")
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, errors.Wrap(err, "failed to compute median")
	}
	if s.Q25, err = stats.Percentile(data, 25); err != nil {
		s.Q25 = s.Min
	}
	if s.Q75, err = stats.Percentile(data, 75); err != nil {
		s.Q75 = s.Max
	}
	if len(data) > 1 {
		if sd, err := stats.StandardDeviationSample(data); err == nil {
			s.StdDev = null.FloatFrom(sd)
		}
	}
	return s, nil
}
