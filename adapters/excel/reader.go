package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"arbodash/domain/notification"
	"arbodash/internal"
	"arbodash/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader reads XLSX and CSV notification extracts into raw tables
type DataReader struct {
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *internal.Logger
}

// NewDataReader creates a reader for the given file type. An empty sheet
// name selects the first worksheet.
func NewDataReader(fileType, sheet string, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &DataReader{fileType: strings.ToLower(fileType), sheet: sheet, logger: logger.With("DataReader")}
}

// ReaderFor returns a reader matching the file extension of path, or false
// when the extension is not handled here
func ReaderFor(path string, logger *internal.Logger) (*DataReader, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewDataReader("csv", "", logger), true
	case ".xlsx":
		return NewDataReader("xlsx", "", logger), true
	default:
		return nil, false
	}
}

// ReadTable reads the file at path into a raw table
func (r *DataReader) ReadTable(ctx context.Context, path string) (*notification.RawTable, error) {
	r.logger.Debug("Starting to read %s file: %s", r.fileType, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.FileNotFound(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s file", strings.ToUpper(r.fileType))
	}
	defer f.Close()

	return r.Read(ctx, f)
}

// Read parses an already-open stream
func (r *DataReader) Read(ctx context.Context, src io.Reader) (*notification.RawTable, error) {
	readStart := time.Now()

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV(src)
	case "xlsx":
		rows, err = r.readExcel(src)
	default:
		return nil, errors.UnsupportedFormat(r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("%s read in %.2fms (%d rows)", strings.ToUpper(r.fileType), float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s file has no header row", strings.ToUpper(r.fileType)))
	}

	return processRows(rows), nil
}

func (r *DataReader) readCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	return rows, nil
}

func (r *DataReader) readExcel(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput("Excel file has no worksheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	return rows, nil
}

// processRows converts raw string rows into a RawTable keyed by canonical headers
func processRows(rows [][]string) *notification.RawTable {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = notification.NormalizeHeader(strings.TrimPrefix(header, "\ufeff"))
	}

	dataRows := make([]notification.RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(notification.RawRow, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &notification.RawTable{Headers: headers, Rows: dataRows}
}
