// Package native defines the NativeEngine boundary: the Go analogue of
// the interposed library's "original" Engine-L entry points. spec.md §9
// calls for a single interface replacing per-platform symbol
// interposition; every place the core used to fall through to
// Engine-L's own implementation instead calls through a NativeEngine
// value. Tests substitute a mock implementation.
package native

import "context"

// Row is one result row from a native query, column values in the same
// order as the statement's result columns.
type Row []any

// NativeEngine is the seam between the core and an actual Engine-L
// implementation, used whenever a database is not redirected. A
// redirected database never reaches it; create_collation, for one, is
// answered by the shim without any NativeEngine call.
type NativeEngine interface {
	// Open returns a handle-scoped session for path. path is opaque to
	// the core; the native implementation resolves it to a local file.
	Open(ctx context.Context, path string) (NativeSession, error)
}

// NativeSession is one open native database connection.
type NativeSession interface {
	// Exec runs sql (already in Engine-L's native dialect, unmodified)
	// with the given parameters and returns the number of rows changed.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// Query runs sql and returns every row materialized, plus the
	// column names in result order.
	Query(ctx context.Context, sql string, args ...any) (cols []string, rows []Row, err error)

	// LastInsertID returns the native engine's last-insert-rowid.
	LastInsertID(ctx context.Context) (int64, error)

	// Close releases the underlying native connection.
	Close() error
}
