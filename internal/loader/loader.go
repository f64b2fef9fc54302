// Package loader turns dataset files into typed notification tables and
// memoizes them by path for the life of the process.
package loader

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"arbodash/adapters/columnar"
	"arbodash/adapters/excel"
	"arbodash/domain/notification"
	"arbodash/internal"
	"arbodash/internal/errors"
	"arbodash/ports"

	"golang.org/x/sync/singleflight"
)

// Loader reads and caches notification tables. The zero value is not usable;
// construct with New.
type Loader struct {
	readerFor func(path string) (ports.TableReader, error)
	logger    *internal.Logger

	mu     sync.RWMutex
	tables map[string]*notification.Table
	group  singleflight.Group
}

// New creates a loader dispatching on file extension
func New(logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	l := &Loader{
		logger: logger.With("Loader"),
		tables: make(map[string]*notification.Table),
	}
	l.readerFor = func(path string) (ports.TableReader, error) { return ReaderFor(path, logger) }
	return l
}

// NewWithReader creates a loader that reads every path through r
func NewWithReader(r ports.TableReader, logger *internal.Logger) *Loader {
	l := New(logger)
	l.readerFor = func(string) (ports.TableReader, error) { return r, nil }
	return l
}

// ReaderFor selects the storage adapter for path
func ReaderFor(path string, logger *internal.Logger) (ports.TableReader, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return columnar.NewReader(logger), nil
	}
	if r, ok := excel.ReaderFor(path, logger); ok {
		return r, nil
	}
	return nil, errors.UnsupportedFormat(path)
}

// Load returns the table stored at path, reading it at most once. Concurrent
// first calls for the same path share a single read. Failed reads are not
// cached. A cancelled ctx returns early without aborting the shared read.
func (l *Loader) Load(ctx context.Context, path string) (*notification.Table, error) {
	key := filepath.Clean(path)

	l.mu.RLock()
	table, ok := l.tables[key]
	l.mu.RUnlock()
	if ok {
		return table, nil
	}

	// The shared read outlives any single caller's cancellation.
	readCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (interface{}, error) {
		l.mu.RLock()
		cached, ok := l.tables[key]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}

		t, err := l.read(readCtx, key)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.tables[key] = t
		l.mu.Unlock()
		return t, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.logger.Trace("shared in-flight load of %s", key)
		}
		return res.Val.(*notification.Table), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Loader) read(ctx context.Context, path string) (*notification.Table, error) {
	reader, err := l.readerFor(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := reader.ReadTable(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load dataset %s", path)
	}

	records := make([]notification.Record, len(raw.Rows))
	for i, row := range raw.Rows {
		records[i] = notification.FromRaw(row)
	}

	l.logger.Info("loaded %d records from %s in %s", len(records), path, time.Since(start).Round(time.Millisecond))
	return &notification.Table{
		Source:   path,
		LoadedAt: time.Now().UTC(),
		Records:  records,
	}, nil
}

// Put seeds the cache with an already built table, such as the generated
// synthetic dataset
func (l *Loader) Put(path string, table *notification.Table) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tables[filepath.Clean(path)] = table
}

// Forget drops a cached table so the next Load re-reads it
func (l *Loader) Forget(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.tables, filepath.Clean(path))
}
