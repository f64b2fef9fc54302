package excel

import (
	"encoding/csv"
	"io"

	"arbodash/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Sheet is a rectangular block written to one worksheet
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// WriteWorkbook writes sheets to w as an XLSX workbook, in order
func WriteWorkbook(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return errors.InvalidInput("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return errors.Wrapf(err, "failed to name sheet %s", sheet.Name)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return errors.Wrapf(err, "failed to create sheet %s", sheet.Name)
		}

		header := make([]interface{}, len(sheet.Headers))
		for j, h := range sheet.Headers {
			header[j] = h
		}
		if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
			return errors.Wrap(err, "failed to write header row")
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return errors.Wrap(err, "failed to address row")
			}
			values := row
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				return errors.Wrapf(err, "failed to write row %d", r+1)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}
	return nil
}

// WriteCSV writes a header line followed by rows as comma-separated UTF-8
func WriteCSV(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrap(err, "failed to write CSV rows")
	}
	return nil
}
