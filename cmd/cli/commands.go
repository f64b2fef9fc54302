package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"arbodash/adapters/columnar"
	"arbodash/adapters/excel"
	"arbodash/app"
	"arbodash/internal/impact"

	"github.com/spf13/cobra"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSummaryCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count filtered records per disease and study group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			summary, err := s.dashboard.Summary(cmd.Context(), s.selection)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
}

func newSynthesisCmd(opts *cliOptions) *cobra.Command {
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "synthesis",
		Short: "Print the disease by study group synthesis table as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			table, err := s.dashboard.Synthesis(cmd.Context(), s.selection)
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				f, err := os.Create(xlsxPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := app.WriteSynthesisWorkbook(f, table); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", xlsxPath)
				return nil
			}

			rows := make([][]string, 0, len(table.Rows))
			for _, row := range table.Values() {
				cells := make([]string, len(row))
				for i, v := range row {
					if v != nil {
						cells[i] = fmt.Sprint(v)
					}
				}
				rows = append(rows, cells)
			}
			return excel.WriteCSV(cmd.OutOrStdout(), table.Headers(), rows)
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write an XLSX workbook to this path instead")
	return cmd
}

func newExportCmd(opts *cliOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered records as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := s.dashboard.ExportCSV(cmd.Context(), s.selection, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", n, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", app.FilteredCSVName, "Output file")
	return cmd
}

func newITSCmd(opts *cliOptions) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "its",
		Short: "Fit the interrupted time series around the ESP date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := impact.ParsePeriod(period)
			if err != nil {
				return err
			}
			s, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			result, err := s.dashboard.ITS(cmd.Context(), s.selection, p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&period, "period", "week", "Aggregation period (week, year)")
	return cmd
}

func newDiDCmd(opts *cliOptions) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "did",
		Short: "Fit the difference-in-differences model between case and control groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := impact.ParsePeriod(period)
			if err != nil {
				return err
			}
			s, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			result, err := s.dashboard.DiD(cmd.Context(), s.selection, p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&period, "period", "year", "Aggregation period (week, year)")
	return cmd
}

func newRewriteCmd(opts *cliOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "rewrite [source.parquet]",
		Short: "Rewrite a parquet dataset to <name>_clean.parquet",
		Long: `Copy every row of a parquet dataset into a freshly encoded file.

Example: arbodash rewrite data/arbo14vale24.parquet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := opts.dataset
			if len(args) == 1 {
				src = args[0]
			}
			dst := out
			if dst == "" {
				dst = columnar.CleanPath(src)
			}

			rows, err := columnar.NewReader(opts.logger(cmd)).Rewrite(cmd.Context(), src, dst)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", rows, dst)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default <name>_clean.parquet)")
	return cmd
}
