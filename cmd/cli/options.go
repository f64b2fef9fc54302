package main

import (
	"context"
	"net/url"
	"os"
	"time"

	"arbodash/app"
	"arbodash/domain/notification"
	"arbodash/internal"
	"arbodash/internal/config"
	"arbodash/internal/errors"
	"arbodash/internal/loader"
	"arbodash/internal/pipeline"
	"arbodash/internal/reports"
	"arbodash/internal/testkit"

	"github.com/spf13/cobra"
)

// cliOptions holds the dataset and filter flags shared by every command
type cliOptions struct {
	dataset   string
	synthetic bool
	espDate   string
	logLevel  string

	diseases       []string
	municipalities []string
	sexes          []string
	races          []string
	groups         []string
	years          []string
	yearFrom       string
	yearTo         string
	dateFrom       string
	dateTo         string
}

// filterFlags maps flag names to the query keys the dashboard understands
var filterFlags = map[string]string{
	"disease":      "disease",
	"municipality": "municipality",
	"sex":          "sex",
	"race":         "race",
	"group":        "group",
	"year":         "year",
	"year-from":    "year_from",
	"year-to":      "year_to",
	"date-from":    "date_from",
	"date-to":      "date_to",
}

func (o *cliOptions) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.dataset, "dataset", envOr("DATASET_PATH", "data/arbo14vale24.parquet"), "Dataset file (.parquet, .csv, .xlsx)")
	flags.BoolVar(&o.synthetic, "synthetic", false, "Use a generated dataset instead of --dataset")
	flags.StringVar(&o.espDate, "esp-date", envOr("ESP_DATE", config.DefaultESPDate), "Intervention date (YYYY-MM-DD)")
	flags.StringVar(&o.logLevel, "log-level", envOr("LOG_LEVEL", "WARN"), "Log level")

	flags.StringSliceVar(&o.diseases, "disease", nil, "Diseases (ID_AGRAVO) to keep")
	flags.StringSliceVar(&o.municipalities, "municipality", nil, "Municipalities to keep")
	flags.StringSliceVar(&o.sexes, "sex", nil, "Sexes to keep")
	flags.StringSliceVar(&o.races, "race", nil, "Races to keep")
	flags.StringSliceVar(&o.groups, "group", nil, "Study groups to keep (Caso, Controle)")
	flags.StringSliceVar(&o.years, "year", nil, "Years to keep")
	flags.StringVar(&o.yearFrom, "year-from", "", "First year")
	flags.StringVar(&o.yearTo, "year-to", "", "Last year")
	flags.StringVar(&o.dateFrom, "date-from", "", "First notification date")
	flags.StringVar(&o.dateTo, "date-to", "", "Last notification date")
}

// query converts the flags the user set into dashboard query parameters.
// Unset flags are omitted so their dimension keeps the full default.
func (o *cliOptions) query(cmd *cobra.Command) url.Values {
	q := url.Values{}
	lists := map[string][]string{
		"disease":      o.diseases,
		"municipality": o.municipalities,
		"sex":          o.sexes,
		"race":         o.races,
		"group":        o.groups,
		"year":         o.years,
	}
	scalars := map[string]string{
		"year-from": o.yearFrom,
		"year-to":   o.yearTo,
		"date-from": o.dateFrom,
		"date-to":   o.dateTo,
	}
	for flag, key := range filterFlags {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		if values, ok := lists[flag]; ok {
			q[key] = append([]string{}, values...)
		} else {
			q[key] = []string{scalars[flag]}
		}
	}
	return q
}

// session bundles what a command needs to answer a query
type session struct {
	dashboard *app.DashboardService
	table     *notification.Table
	selection pipeline.Selection
}

// logger writes to the command's stderr at the --log-level threshold
func (o *cliOptions) logger(cmd *cobra.Command) *internal.Logger {
	return internal.NewLoggerTo(cmd.ErrOrStderr(), internal.ParseLogLevel(o.logLevel))
}

func (o *cliOptions) open(ctx context.Context, cmd *cobra.Command) (*session, error) {
	esp, err := time.Parse("2006-01-02", o.espDate)
	if err != nil {
		return nil, errors.InvalidInput("esp-date must be YYYY-MM-DD")
	}

	logger := o.logger(cmd)
	l := loader.New(logger)
	path := o.dataset
	if o.synthetic {
		l.Put(testkit.SyntheticPath, testkit.NewNotificationGenerator(testkit.DefaultNotificationConfig()).GenerateTable())
		path = testkit.SyntheticPath
	}

	dashboard := app.NewDashboardService(l, reports.NewRegistry(reports.DefaultViews()...), path, esp, logger)
	table, err := dashboard.Table(ctx)
	if err != nil {
		return nil, err
	}
	sel, err := app.ParseSelection(o.query(cmd), table)
	if err != nil {
		return nil, err
	}
	return &session{dashboard: dashboard, table: table, selection: sel}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
