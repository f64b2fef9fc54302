package impact

import (
	"time"

	"arbodash/domain/notification"
	"arbodash/internal/errors"
)

const (
	termTime         = "t"
	termIntervention = "intervention"
	termTimeAfter    = "t_after"

	minITSPeriods    = 6
	minITSPerSegment = 2
)

// ITSPoint is one period of the interrupted time series
type ITSPoint struct {
	Start          time.Time  `json:"start"`
	T              int        `json:"t"`
	Intervention   bool       `json:"intervention"`
	Observed       float64    `json:"observed"`
	Fitted         Prediction `json:"fitted"`
	Counterfactual Prediction `json:"counterfactual"`
}

// ITSResult is a fitted interrupted time series
type ITSResult struct {
	Period       Period        `json:"period"`
	ESPDate      time.Time     `json:"esp_date"`
	Coefficients []Coefficient `json:"coefficients"`
	RateRatios   []Coefficient `json:"rate_ratios"`
	Points       []ITSPoint    `json:"points"`
}

// Coefficient returns the named term, if present
func (r *ITSResult) Coefficient(name string) (Coefficient, bool) {
	return lookup(r.Coefficients, name)
}

// FitITS fits count ~ 1 + t + intervention + t_after as a Poisson GLM over
// period counts of table. The counterfactual predicts each period with the
// intervention terms set to zero.
func FitITS(table *notification.Table, period Period, esp time.Time) (*ITSResult, error) {
	buckets := Counts(table, period, nil)
	if len(buckets) < minITSPeriods {
		return nil, errors.InsufficientData("interrupted time series needs at least six periods")
	}

	n := len(buckets)
	d := newDesign(n, termTime, termIntervention, termTimeAfter)
	y := make([]float64, n)
	pre, post := 0, 0
	firstPost := -1
	total := 0.0

	for i, b := range buckets {
		y[i] = b.Count
		total += b.Count
		d.cols[1][i] = float64(i)
		if period.IsPost(b.Start, esp) {
			if firstPost < 0 {
				firstPost = i
			}
			d.cols[2][i] = 1
			d.cols[3][i] = float64(i - firstPost)
			post++
		} else {
			pre++
		}
	}
	if pre < minITSPerSegment || post < minITSPerSegment {
		return nil, errors.InsufficientData("interrupted time series needs at least two periods before and after the ESP date")
	}
	if total == 0 {
		return nil, errors.InsufficientData("no cases in the selected periods")
	}

	f, err := fitGLM(y, d, poisson)
	if err != nil {
		return nil, err
	}

	result := &ITSResult{
		Period:       period,
		ESPDate:      esp,
		Coefficients: f.coefficients(),
	}
	for _, c := range result.Coefficients {
		result.RateRatios = append(result.RateRatios, c.Exp())
	}

	for i, b := range buckets {
		x := d.row(i)
		cf := append([]float64(nil), x...)
		cf[2], cf[3] = 0, 0
		result.Points = append(result.Points, ITSPoint{
			Start:          b.Start,
			T:              i,
			Intervention:   x[2] == 1,
			Observed:       b.Count,
			Fitted:         f.predict(x),
			Counterfactual: f.predict(cf),
		})
	}
	return result, nil
}

func lookup(coefs []Coefficient, name string) (Coefficient, bool) {
	for _, c := range coefs {
		if c.Name == name {
			return c, true
		}
	}
	return Coefficient{}, false
}
