package app

import (
	"context"
	"io"
	"strconv"

	"arbodash/adapters/excel"
	"arbodash/domain/notification"
	"arbodash/internal/pipeline"
	"arbodash/internal/synthesis"

	"gopkg.in/guregu/null.v3"
)

// Fixed download names
const (
	FilteredCSVName  = "arboviroses_filtrado.csv"
	SynthesisXLSName = "sintese.xlsx"
)

var exportHeaders = []string{
	notification.ColNotifiedAt,
	notification.ColSymptomOnsetAt,
	notification.ColClosedAt,
	notification.ColDisease,
	notification.ColMunicipalityID,
	notification.ColMunicipalityName,
	notification.ColYear,
	notification.ColSex,
	notification.ColRace,
	notification.ColEducation,
	notification.ColRawAge,
	notification.ColStudyGroup,
	notification.ColAgeYears,
	notification.ColAgeBand,
}

// ExportRows flattens records in export column order. Null values are
// empty strings.
func ExportRows(table *notification.Table) ([]string, [][]string) {
	rows := make([][]string, 0, table.Len())
	for i := range table.Records {
		r := &table.Records[i]
		rows = append(rows, []string{
			formatDate(r.NotifiedAt),
			formatDate(r.SymptomOnsetAt),
			formatDate(r.ClosedAt),
			r.Disease,
			r.MunicipalityID,
			r.MunicipalityName,
			formatInt(r.Year.Valid, r.Year.Int64),
			r.Sex,
			r.Race,
			r.Education,
			r.RawAge,
			string(r.Group),
			formatInt(r.AgeYears.Valid, r.AgeYears.Int64),
			string(r.AgeBand),
		})
	}
	return exportHeaders, rows
}

// ExportCSV writes the filtered records as CSV
func (s *DashboardService) ExportCSV(ctx context.Context, sel pipeline.Selection, w io.Writer) (int, error) {
	filtered, err := s.Filter(ctx, sel)
	if err != nil {
		return 0, err
	}
	headers, rows := ExportRows(filtered)
	if err := excel.WriteCSV(w, headers, rows); err != nil {
		return 0, err
	}
	s.logger.Info("exported %d records as CSV", len(rows))
	return len(rows), nil
}

// ExportSynthesis writes the synthesis table as an XLSX workbook
func (s *DashboardService) ExportSynthesis(ctx context.Context, sel pipeline.Selection, w io.Writer) error {
	table, err := s.Synthesis(ctx, sel)
	if err != nil {
		return err
	}
	return WriteSynthesisWorkbook(w, table)
}

// WriteSynthesisWorkbook writes t to a single-sheet workbook
func WriteSynthesisWorkbook(w io.Writer, t *synthesis.Table) error {
	return excel.WriteWorkbook(w, excel.Sheet{
		Name:    "Sintese",
		Headers: t.Headers(),
		Rows:    t.Values(),
	})
}

func formatDate(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format("2006-01-02")
}

func formatInt(valid bool, v int64) string {
	if !valid {
		return ""
	}
	return strconv.FormatInt(v, 10)
}
