package columnar

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"arbodash/internal/errors"

	"github.com/apache/arrow/go/v7/parquet"
	"github.com/apache/arrow/go/v7/parquet/compress"
	"github.com/apache/arrow/go/v7/parquet/pqarrow"
)

const rowGroupSize = 128 * 1024

// CleanPath returns the conventional output path for a rewritten dataset:
// data/x.parquet becomes data/x_clean.parquet
func CleanPath(src string) string {
	ext := filepath.Ext(src)
	return strings.TrimSuffix(src, ext) + "_clean" + ext
}

// Rewrite copies every row of src into a freshly encoded, snappy-compressed
// parquet file at dst and returns the number of rows written. A missing
// source fails before dst is touched.
func (r *Reader) Rewrite(ctx context.Context, src, dst string) (int64, error) {
	tbl, err := r.readArrow(ctx, src)
	if err != nil {
		return 0, err
	}
	defer tbl.Release()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to create %s", tmp)
	}

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	if err := pqarrow.WriteTable(tbl, out, rowGroupSize, props, pqarrow.DefaultWriterProps()); err != nil {
		out.Close()
		os.Remove(tmp)
		return 0, errors.Wrap(err, "failed to write parquet table")
	}
	// WriteTable closes the sink itself
	if err := out.Close(); err != nil && !stderrors.Is(err, os.ErrClosed) {
		os.Remove(tmp)
		return 0, errors.Wrap(err, "failed to close output")
	}
	if err := os.Rename(tmp, dst); err != nil {
		return 0, errors.Wrapf(err, "failed to move output to %s", dst)
	}

	return tbl.NumRows(), nil
}
