// Package columnar reads and rewrites parquet notification extracts through
// Apache Arrow.
package columnar

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"arbodash/domain/notification"
	"arbodash/internal"
	"arbodash/internal/errors"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
	"github.com/apache/arrow/go/v7/arrow/memory"
	"github.com/apache/arrow/go/v7/parquet/file"
	"github.com/apache/arrow/go/v7/parquet/pqarrow"
	"github.com/shopspring/decimal"
)

const defaultBatchSize = 64 * 1024

// Reader loads a parquet file into a raw notification table
type Reader struct {
	mem    memory.Allocator
	logger *internal.Logger
}

// NewReader creates a parquet reader using the default Go allocator
func NewReader(logger *internal.Logger) *Reader {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Reader{mem: memory.DefaultAllocator, logger: logger.With("ParquetReader")}
}

// ReadTable reads every column of the file at path. Cells are rendered as
// strings; dates become YYYY-MM-DD and nulls become "".
func (r *Reader) ReadTable(ctx context.Context, path string) (*notification.RawTable, error) {
	start := time.Now()
	tbl, err := r.readArrow(ctx, path)
	if err != nil {
		return nil, err
	}
	defer tbl.Release()

	nrows := int(tbl.NumRows())
	ncols := int(tbl.NumCols())
	headers := make([]string, ncols)
	rows := make([]notification.RawRow, nrows)
	for i := range rows {
		rows[i] = make(notification.RawRow, ncols)
	}

	for c := 0; c < ncols; c++ {
		col := tbl.Column(c)
		name := notification.NormalizeHeader(col.Name())
		headers[c] = name

		offset := 0
		for _, chunk := range col.Data().Chunks() {
			for i := 0; i < chunk.Len(); i++ {
				v, ok := cellString(chunk, i)
				if !ok {
					return nil, errors.UnsupportedFormat(fmt.Sprintf("%s (column %s has type %s)", path, name, chunk.DataType()))
				}
				rows[offset+i][name] = v
			}
			offset += chunk.Len()
		}
	}

	r.logger.Debug("%s read in %.2fms (%d columns, %d rows)", path, float64(time.Since(start).Nanoseconds())/1e6, ncols, nrows)
	return &notification.RawTable{Headers: headers, Rows: rows}, nil
}

func (r *Reader) readArrow(ctx context.Context, path string) (arrow.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.FileNotFound(path)
	}

	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open parquet file %s", path)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: defaultBatchSize}, r.mem)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create arrow reader")
	}

	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read parquet table")
	}
	return tbl, nil
}

const secondsPerDay = 24 * 60 * 60

// cellString renders one cell. ok is false for column types the reader
// cannot render.
func cellString(a arrow.Array, i int) (string, bool) {
	if a.IsNull(i) {
		return "", true
	}
	switch c := a.(type) {
	case *array.String:
		return c.Value(i), true
	case *array.Binary:
		return string(c.Value(i)), true
	case *array.FixedSizeBinary:
		return string(c.Value(i)), true
	case *array.Boolean:
		return strconv.FormatBool(c.Value(i)), true
	case *array.Int8:
		return strconv.FormatInt(int64(c.Value(i)), 10), true
	case *array.Int16:
		return strconv.FormatInt(int64(c.Value(i)), 10), true
	case *array.Int32:
		return strconv.FormatInt(int64(c.Value(i)), 10), true
	case *array.Int64:
		return strconv.FormatInt(c.Value(i), 10), true
	case *array.Uint8:
		return strconv.FormatUint(uint64(c.Value(i)), 10), true
	case *array.Uint16:
		return strconv.FormatUint(uint64(c.Value(i)), 10), true
	case *array.Uint32:
		return strconv.FormatUint(uint64(c.Value(i)), 10), true
	case *array.Uint64:
		return strconv.FormatUint(c.Value(i), 10), true
	case *array.Float16:
		return strconv.FormatFloat(float64(c.Value(i).Float32()), 'f', -1, 32), true
	case *array.Float32:
		return strconv.FormatFloat(float64(c.Value(i)), 'f', -1, 32), true
	case *array.Float64:
		return strconv.FormatFloat(c.Value(i), 'f', -1, 64), true
	case *array.Decimal128:
		scale := c.DataType().(*arrow.Decimal128Type).Scale
		return decimal.NewFromBigInt(c.Value(i).BigInt(), -scale).String(), true
	case *array.Date32:
		return time.Unix(int64(c.Value(i))*secondsPerDay, 0).UTC().Format("2006-01-02"), true
	case *array.Date64:
		return time.UnixMilli(int64(c.Value(i))).UTC().Format("2006-01-02"), true
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return timestampTime(int64(c.Value(i)), unit).Format(time.RFC3339), true
	default:
		return "", false
	}
}

func timestampTime(v int64, unit arrow.TimeUnit) time.Time {
	switch unit {
	case arrow.Second:
		return time.Unix(v, 0).UTC()
	case arrow.Millisecond:
		return time.UnixMilli(v).UTC()
	case arrow.Microsecond:
		return time.UnixMicro(v).UTC()
	default:
		return time.Unix(0, v).UTC()
	}
}
