package ports

import (
	"context"

	"arbodash/domain/notification"
)

// TableReader reads a raw notification extract from storage.
// Implementations return a NOT_FOUND error when the file is absent.
type TableReader interface {
	ReadTable(ctx context.Context, path string) (*notification.RawTable, error)
}

// TableLoader provides typed, read-only notification tables to the UI/CLI.
// Returned tables may be shared between callers and must not be mutated.
type TableLoader interface {
	Load(ctx context.Context, path string) (*notification.Table, error)
}
