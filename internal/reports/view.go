// Package reports renders the dashboard views. Every page is one ViewConfig
// fed through the same filter-and-aggregate path.
package reports

import (
	"sort"
	"time"

	"arbodash/domain/notification"
	"arbodash/internal/errors"
	"arbodash/internal/pipeline"
	"arbodash/internal/synthesis"
)

// ChartKind tells the front end how to draw a view
type ChartKind string

const (
	ChartLine    ChartKind = "line"
	ChartBar     ChartKind = "bar"
	ChartPie     ChartKind = "pie"
	ChartPyramid ChartKind = "pyramid"
	ChartTable   ChartKind = "table"
)

// Kind selects the aggregation a view performs
type Kind string

const (
	KindCounts    Kind = "counts"
	KindPyramid   Kind = "pyramid"
	KindIntervals Kind = "intervals"
	KindSynthesis Kind = "synthesis"
)

// Annotation marks a notable date on a time chart
type Annotation struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
}

// ViewConfig describes one view: which filter dimensions it honours, how it
// groups the filtered rows and which chart presents them
type ViewConfig struct {
	Name        string               `json:"name"`
	Title       string               `json:"title"`
	Section     string               `json:"section"`
	Kind        Kind                 `json:"kind"`
	Filters     []pipeline.Dimension `json:"filters"`
	DateFilter  bool                 `json:"date_filter"`
	GroupBy     []pipeline.Dimension `json:"group_by,omitempty"`
	Chart       ChartKind            `json:"chart"`
	SortByCount bool                 `json:"sort_by_count,omitempty"`
	Annotations []Annotation         `json:"annotations,omitempty"`
}

// View is a rendered view, ready to serialize
type View struct {
	Config    ViewConfig        `json:"config"`
	Rows      int               `json:"rows"`
	Counts    *pipeline.Counts  `json:"counts,omitempty"`
	Pyramid   []PyramidBar      `json:"pyramid,omitempty"`
	Intervals []IntervalSummary `json:"intervals,omitempty"`
	Synthesis *synthesis.Table  `json:"synthesis,omitempty"`
}

// Honours reports whether the view filters on dim
func (c ViewConfig) Honours(dim pipeline.Dimension) bool {
	for _, d := range c.Filters {
		if d == dim {
			return true
		}
	}
	return false
}

// Render filters table by the dimensions the view honours and aggregates
// the result. An empty filtered table yields an EMPTY_RESULT error.
func (c ViewConfig) Render(table *notification.Table, sel pipeline.Selection) (*View, error) {
	filtered := pipeline.Apply(table, sel.Restrict(c.Filters, c.DateFilter))
	if err := pipeline.RequireRows(filtered); err != nil {
		return nil, err
	}

	view := &View{Config: c, Rows: filtered.Len()}
	switch c.Kind {
	case KindCounts:
		view.Counts = pipeline.CountBy(filtered, c.GroupBy...)
		if c.SortByCount {
			view.Counts.SortByCountDesc()
		}
	case KindPyramid:
		view.Pyramid = AgePyramid(filtered)
	case KindIntervals:
		intervals, err := ClinicalIntervals(filtered)
		if err != nil {
			return nil, err
		}
		view.Intervals = intervals
	case KindSynthesis:
		view.Synthesis = synthesis.Build(filtered)
	default:
		return nil, errors.InternalError("unknown view kind " + string(c.Kind))
	}
	return view, nil
}

// Registry holds the views in display order
type Registry struct {
	order []string
	views map[string]ViewConfig
}

// NewRegistry builds a registry from configs; later duplicates replace
// earlier ones
func NewRegistry(configs ...ViewConfig) *Registry {
	r := &Registry{views: make(map[string]ViewConfig)}
	for _, c := range configs {
		if _, ok := r.views[c.Name]; !ok {
			r.order = append(r.order, c.Name)
		}
		r.views[c.Name] = c
	}
	return r
}

// Lookup returns the named view or a NOT_FOUND error
func (r *Registry) Lookup(name string) (ViewConfig, error) {
	c, ok := r.views[name]
	if !ok {
		return ViewConfig{}, errors.NotFound("view " + name)
	}
	return c, nil
}

// List returns every view in display order
func (r *Registry) List() []ViewConfig {
	out := make([]ViewConfig, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.views[name])
	}
	return out
}

// Sections returns view names grouped by section, sections sorted
func (r *Registry) Sections() map[string][]string {
	out := make(map[string][]string)
	for _, name := range r.order {
		s := r.views[name].Section
		out[s] = append(out[s], name)
	}
	for s := range out {
		sort.Strings(out[s])
	}
	return out
}
