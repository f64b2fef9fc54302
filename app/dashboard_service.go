package app

import (
	"context"
	"time"

	"arbodash/domain/notification"
	"arbodash/internal"
	"arbodash/internal/impact"
	"arbodash/internal/pipeline"
	"arbodash/internal/reports"
	"arbodash/internal/synthesis"
	"arbodash/ports"
)

// DashboardService answers every dashboard query over the configured dataset
type DashboardService struct {
	loader      ports.TableLoader
	views       *reports.Registry
	datasetPath string
	espDate     time.Time
	logger      *internal.Logger
}

// NewDashboardService creates a dashboard service reading datasetPath
// through loader
func NewDashboardService(loader ports.TableLoader, views *reports.Registry, datasetPath string, espDate time.Time, logger *internal.Logger) *DashboardService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &DashboardService{
		loader:      loader,
		views:       views,
		datasetPath: datasetPath,
		espDate:     espDate,
		logger:      logger.With("Dashboard"),
	}
}

// FilterOptions lists the values offered by the sidebar filters
type FilterOptions struct {
	Source         string    `json:"source"`
	Rows           int       `json:"rows"`
	Years          []string  `json:"years"`
	YearMin        int64     `json:"year_min"`
	YearMax        int64     `json:"year_max"`
	DateFrom       time.Time `json:"date_from"`
	DateTo         time.Time `json:"date_to"`
	Diseases       []string  `json:"diseases"`
	Municipalities []string  `json:"municipalities"`
	Sexes          []string  `json:"sexes"`
	Races          []string  `json:"races"`
	Groups         []string  `json:"groups"`
}

// Summary is a headline count of the filtered records
type Summary struct {
	Rows      int              `json:"rows"`
	ByDisease *pipeline.Counts `json:"by_disease"`
	ByGroup   *pipeline.Counts `json:"by_group"`
	YearMin   int64            `json:"year_min"`
	YearMax   int64            `json:"year_max"`
}

// Table returns the loaded dataset
func (s *DashboardService) Table(ctx context.Context) (*notification.Table, error) {
	return s.loader.Load(ctx, s.datasetPath)
}

// ESPDate returns the intervention date used by the models
func (s *DashboardService) ESPDate() time.Time {
	return s.espDate
}

// Views returns the registered views
func (s *DashboardService) Views() *reports.Registry {
	return s.views
}

// Options computes the sidebar filter values
func (s *DashboardService) Options(ctx context.Context) (*FilterOptions, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	opts := &FilterOptions{
		Source:         table.Source,
		Rows:           table.Len(),
		Years:          pipeline.Distinct(table, pipeline.DimYear),
		Diseases:       pipeline.Distinct(table, pipeline.DimDisease),
		Municipalities: pipeline.Distinct(table, pipeline.DimMunicipality),
		Sexes:          pipeline.Distinct(table, pipeline.DimSex),
		Races:          pipeline.Distinct(table, pipeline.DimRace),
		Groups:         pipeline.Distinct(table, pipeline.DimGroup),
	}
	opts.YearMin, opts.YearMax, _ = pipeline.YearBounds(table)
	opts.DateFrom, opts.DateTo, _ = pipeline.DateBounds(table)
	return opts, nil
}

// Filter applies sel and reports EMPTY_RESULT when nothing matches
func (s *DashboardService) Filter(ctx context.Context, sel pipeline.Selection) (*notification.Table, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	filtered := pipeline.Apply(table, sel)
	if err := pipeline.RequireRows(filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

// Summary counts filtered records per disease and group
func (s *DashboardService) Summary(ctx context.Context, sel pipeline.Selection) (*Summary, error) {
	filtered, err := s.Filter(ctx, sel)
	if err != nil {
		return nil, err
	}
	summary := &Summary{
		Rows:      filtered.Len(),
		ByDisease: pipeline.CountBy(filtered, pipeline.DimDisease),
		ByGroup:   pipeline.CountBy(filtered, pipeline.DimGroup),
	}
	summary.ByDisease.SortByCountDesc()
	summary.YearMin, summary.YearMax, _ = pipeline.YearBounds(filtered)
	return summary, nil
}

// RenderView renders the named view under sel
func (s *DashboardService) RenderView(ctx context.Context, name string, sel pipeline.Selection) (*reports.View, error) {
	cfg, err := s.views.Lookup(name)
	if err != nil {
		return nil, err
	}
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.Render(table, sel)
}

// Synthesis builds the disease × group table of the filtered records
func (s *DashboardService) Synthesis(ctx context.Context, sel pipeline.Selection) (*synthesis.Table, error) {
	filtered, err := s.Filter(ctx, sel)
	if err != nil {
		return nil, err
	}
	return synthesis.Build(filtered), nil
}

// ITS fits the interrupted time series on the filtered records
func (s *DashboardService) ITS(ctx context.Context, sel pipeline.Selection, period impact.Period) (*impact.ITSResult, error) {
	filtered, err := s.Filter(ctx, sel)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := impact.FitITS(filtered, period, s.espDate)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("ITS fit over %d %s periods in %s", len(result.Points), period, time.Since(start))
	return result, nil
}

// DiD fits the difference-in-differences model. The group filter is not
// applied since the model compares both groups.
func (s *DashboardService) DiD(ctx context.Context, sel pipeline.Selection, period impact.Period) (*impact.DiDResult, error) {
	sel.Groups = nil
	filtered, err := s.Filter(ctx, sel)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := impact.FitDiD(filtered, period, s.espDate)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("DiD fit over %d cells in %s", len(result.Cells), time.Since(start))
	return result, nil
}
