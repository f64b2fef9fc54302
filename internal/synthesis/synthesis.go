// Package synthesis builds the disease × study-group summary table.
package synthesis

import (
	"sort"

	"arbodash/domain/notification"

	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v3"
)

// Row is one disease line of the summary
type Row struct {
	Disease string `json:"disease"`
	// Counts holds one entry per column of the table, in column order
	Counts []int `json:"counts"`
	Total  int   `json:"total"`
	// Percent holds each group's share of Total, rounded to one decimal.
	// Entries are null when Total is zero.
	Percent []null.Float `json:"percent"`
}

// Table is the pivoted summary
type Table struct {
	Groups []notification.StudyGroup `json:"groups"`
	Rows   []Row                     `json:"rows"`
}

// Build counts records per (disease, group) and pivots groups into columns.
// "Caso" and "Controle" columns are always present; any other group label
// found in the data gets its own column after them.
func Build(table *notification.Table) *Table {
	counts := make(map[string]map[notification.StudyGroup]int)
	extra := make(map[notification.StudyGroup]struct{})

	for i := range table.Records {
		r := &table.Records[i]
		byGroup, ok := counts[r.Disease]
		if !ok {
			byGroup = make(map[notification.StudyGroup]int)
			counts[r.Disease] = byGroup
		}
		byGroup[r.Group]++
		if r.Group != notification.GroupCase && r.Group != notification.GroupControl {
			extra[r.Group] = struct{}{}
		}
	}

	groups := []notification.StudyGroup{notification.GroupCase, notification.GroupControl}
	extraGroups := make([]notification.StudyGroup, 0, len(extra))
	for g := range extra {
		extraGroups = append(extraGroups, g)
	}
	sort.Slice(extraGroups, func(i, j int) bool { return extraGroups[i] < extraGroups[j] })
	groups = append(groups, extraGroups...)

	out := &Table{Groups: groups}
	for disease, byGroup := range counts {
		cells := make([]int, len(groups))
		for i, g := range groups {
			cells[i] = byGroup[g]
		}
		out.Rows = append(out.Rows, NewRow(disease, cells))
	}

	sort.Slice(out.Rows, func(i, j int) bool {
		if out.Rows[i].Total != out.Rows[j].Total {
			return out.Rows[i].Total > out.Rows[j].Total
		}
		return out.Rows[i].Disease < out.Rows[j].Disease
	})
	return out
}

// NewRow computes the total and percentages for one disease
func NewRow(disease string, counts []int) Row {
	total := 0
	for _, c := range counts {
		total += c
	}
	row := Row{Disease: disease, Counts: counts, Total: total, Percent: make([]null.Float, len(counts))}
	if total == 0 {
		return row
	}
	for i, c := range counts {
		row.Percent[i] = null.FloatFrom(Percent(c, total))
	}
	return row
}

// Percent returns part/total × 100 rounded half away from zero to one
// decimal place. total must be positive.
func Percent(part, total int) float64 {
	p := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(total)), 8).
		Round(1)
	f, _ := p.Float64()
	return f
}

// Column returns the index of group in t.Groups, or -1
func (t *Table) Column(group notification.StudyGroup) int {
	for i, g := range t.Groups {
		if g == group {
			return i
		}
	}
	return -1
}

// Headers returns the export column names: disease, one count column per
// group, the total and one percentage column per group
func (t *Table) Headers() []string {
	headers := []string{"Agravo"}
	for _, g := range t.Groups {
		headers = append(headers, string(g))
	}
	headers = append(headers, "Total")
	for _, g := range t.Groups {
		headers = append(headers, "% "+string(g))
	}
	return headers
}

// Values flattens the rows in Headers order. Null percentages become nil.
func (t *Table) Values() [][]interface{} {
	out := make([][]interface{}, 0, len(t.Rows))
	for _, row := range t.Rows {
		line := []interface{}{notification.DiseaseName(row.Disease)}
		for _, c := range row.Counts {
			line = append(line, c)
		}
		line = append(line, row.Total)
		for _, p := range row.Percent {
			if p.Valid {
				line = append(line, p.Float64)
			} else {
				line = append(line, nil)
			}
		}
		out = append(out, line)
	}
	return out
}
