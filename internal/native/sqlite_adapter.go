package native

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteEngine is the NativeEngine backed by modernc.org/sqlite: a pure
// Go driver, so the core never links against the host's own Engine-L
// binary to service an unredirected database.
type SQLiteEngine struct{}

var _ NativeEngine = SQLiteEngine{}

// Open opens path with the same WAL/foreign-key pragmas the core
// expects of a well-behaved local engine.
func (SQLiteEngine) Open(ctx context.Context, path string) (NativeSession, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open native sqlite session")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping native sqlite session")
	}
	return &sqliteSession{db: db}, nil
}

type sqliteSession struct {
	db *sql.DB
}

var _ NativeSession = (*sqliteSession)(nil)

func (s *sqliteSession) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "native exec")
	}
	return res.RowsAffected()
}

func (s *sqliteSession) Query(ctx context.Context, query string, args ...any) ([]string, []Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "native query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, errors.Wrap(err, "native columns")
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, errors.Wrap(err, "native scan")
		}
		out = append(out, Row(vals))
	}
	return cols, out, errors.Wrap(rows.Err(), "native rows")
}

func (s *sqliteSession) LastInsertID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT last_insert_rowid()").Scan(&id)
	return id, errors.Wrap(err, "native last_insert_rowid")
}

func (s *sqliteSession) Close() error {
	return s.db.Close()
}
