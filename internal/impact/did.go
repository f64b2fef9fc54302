package impact

import (
	"time"

	"arbodash/domain/notification"
	"arbodash/internal/errors"
)

const (
	termTreated     = "treated"
	termPost        = "post"
	termTreatedPost = "treated:post"

	minDiDCells = 5
)

// DiDCell is the count of one group in one period
type DiDCell struct {
	Start    time.Time               `json:"start"`
	Group    notification.StudyGroup `json:"group"`
	Treated  bool                    `json:"treated"`
	Post     bool                    `json:"post"`
	Observed float64                 `json:"observed"`
	Fitted   Prediction              `json:"fitted"`
}

// DiDResult is a fitted difference-in-differences regression
type DiDResult struct {
	Period       Period        `json:"period"`
	ESPDate      time.Time     `json:"esp_date"`
	Coefficients []Coefficient `json:"coefficients"`
	// Effect is the treated:post interaction, the DiD estimate
	Effect Coefficient `json:"effect"`
	Cells  []DiDCell   `json:"cells"`
}

// FitDiD fits count ~ 1 + treated + post + treated:post by ordinary least
// squares on per-period counts of the case and control groups. Records of
// any other group are ignored.
func FitDiD(table *notification.Table, period Period, esp time.Time) (*DiDResult, error) {
	groups := []notification.StudyGroup{notification.GroupCase, notification.GroupControl}
	series := make([][]Bucket, len(groups))
	for g, group := range groups {
		group := group
		series[g] = Counts(table, period, func(r *notification.Record) bool { return r.Group == group })
	}

	var cells []DiDCell
	groupTotals := make([]float64, len(groups))
	pre, post := 0, 0
	for g, group := range groups {
		for _, b := range series[g] {
			isPost := period.IsPost(b.Start, esp)
			cells = append(cells, DiDCell{
				Start:    b.Start,
				Group:    group,
				Treated:  group.Kind() == notification.KindCase,
				Post:     isPost,
				Observed: b.Count,
			})
			groupTotals[g] += b.Count
			if g == 0 {
				if isPost {
					post++
				} else {
					pre++
				}
			}
		}
	}

	if len(cells) < minDiDCells {
		return nil, errors.InsufficientData("difference-in-differences needs more than four group-period cells")
	}
	for g, total := range groupTotals {
		if total == 0 {
			return nil, errors.InsufficientData("no records for group " + string(groups[g]))
		}
	}
	if pre == 0 || post == 0 {
		return nil, errors.InsufficientData("difference-in-differences needs periods before and after the ESP date")
	}

	d := newDesign(len(cells), termTreated, termPost, termTreatedPost)
	y := make([]float64, len(cells))
	for i, c := range cells {
		y[i] = c.Observed
		d.cols[1][i] = indicator(c.Treated)
		d.cols[2][i] = indicator(c.Post)
		d.cols[3][i] = indicator(c.Treated && c.Post)
	}

	f, err := fitGLM(y, d, gaussian)
	if err != nil {
		return nil, err
	}

	result := &DiDResult{Period: period, ESPDate: esp, Coefficients: f.coefficients()}
	result.Effect, _ = lookup(result.Coefficients, termTreatedPost)
	for i := range cells {
		cells[i].Fitted = f.predict(d.row(i))
	}
	result.Cells = cells
	return result, nil
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
