package shim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgnl/plex-postgresql/internal/config"
	"github.com/cgnl/plex-postgresql/internal/execengine"
	"github.com/cgnl/plex-postgresql/internal/native"
)

type fakeSession struct {
	queryCols []string
	queryRows []native.Row
	lastID    int64
}

func (s *fakeSession) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return 1, nil
}

func (s *fakeSession) Query(ctx context.Context, sql string, args ...any) ([]string, []native.Row, error) {
	return s.queryCols, s.queryRows, nil
}

func (s *fakeSession) LastInsertID(ctx context.Context) (int64, error) {
	return s.lastID, nil
}

func (s *fakeSession) Close() error { return nil }

type fakeEngine struct {
	session *fakeSession
}

func (e *fakeEngine) Open(ctx context.Context, path string) (native.NativeSession, error) {
	return e.session, nil
}

// newTestRuntime builds a Runtime with no pool, backed entirely by a
// fake native engine, so these tests exercise the Handle/Stmt wiring
// without a live Engine-R.
func newTestRuntime(session *fakeSession) *Runtime {
	cfg := &config.Config{} // no redirect patterns: everything is native
	eng := execengine.New(cfg, nil, &fakeEngine{session: session})
	return &Runtime{engine: eng, collations: newCollationSet(cfg)}
}

func TestOpenPrepareStepColumnsOverNative(t *testing.T) {
	session := &fakeSession{
		queryCols: []string{"name", "age"},
		queryRows: []native.Row{{"alice", int64(30)}},
	}
	rt := newTestRuntime(session)
	ctx := context.Background()

	h, code := rt.Open(ctx, "/var/db/main.sqlite")
	require.Equal(t, CodeOK, code)

	stmt, code := h.Prepare(ctx, "SELECT name, age FROM people")
	require.Equal(t, CodeOK, code)

	require.Equal(t, CodeRow, stmt.Step(ctx))
	assert.Equal(t, 2, stmt.ColumnCount(ctx))
	assert.Equal(t, "name", stmt.ColumnName(ctx, 0))
	assert.Equal(t, "alice", string(stmt.ColumnText(0)))
	assert.EqualValues(t, 30, stmt.ColumnInt(1))

	require.Equal(t, CodeDone, stmt.Step(ctx))
	assert.Equal(t, CodeOK, stmt.Finalize())
}

func TestBindRoundTripOverNative(t *testing.T) {
	rt := newTestRuntime(&fakeSession{})
	ctx := context.Background()

	h, _ := rt.Open(ctx, "/db")
	stmt, code := h.Prepare(ctx, "SELECT 1 FROM t WHERE id = ?")
	require.Equal(t, CodeOK, code)

	assert.Equal(t, CodeOK, stmt.BindText(1, "7"))
	assert.Equal(t, 1, stmt.BindParameterCount())
	assert.Equal(t, CodeMisuse, stmt.BindText(2, "x"))
}

func TestCreateCollationRejectsUnconfiguredName(t *testing.T) {
	cfg := &config.Config{RedirectedCollation: []string{"und-x-icu"}}
	eng := execengine.New(cfg, nil, &fakeEngine{session: &fakeSession{}})
	rt := &Runtime{engine: eng, collations: newCollationSet(cfg)}
	ctx := context.Background()

	h, _ := rt.Open(ctx, "/db")
	assert.Equal(t, CodeOK, h.CreateCollation("und-x-icu"))
	assert.Equal(t, CodeMisuse, h.CreateCollation("nocase"))
}

func TestGetTableDrainsAllRows(t *testing.T) {
	session := &fakeSession{
		queryCols: []string{"id"},
		queryRows: []native.Row{{int64(1)}, {int64(2)}},
	}
	rt := newTestRuntime(session)
	ctx := context.Background()

	h, _ := rt.Open(ctx, "/db")
	columns, rows, code := h.GetTable(ctx, "SELECT id FROM t")
	require.Equal(t, CodeOK, code)
	assert.Equal(t, []string{"id"}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", *rows[0][0])
	assert.Equal(t, "2", *rows[1][0])
}

func TestColumnValueYieldsWorkingValueHandle(t *testing.T) {
	session := &fakeSession{
		queryCols: []string{"n"},
		queryRows: []native.Row{{int64(42)}},
	}
	rt := newTestRuntime(session)
	ctx := context.Background()

	h, _ := rt.Open(ctx, "/db")
	stmt, _ := h.Prepare(ctx, "SELECT n FROM t")
	require.Equal(t, CodeRow, stmt.Step(ctx))

	v := stmt.ColumnValue(0)
	assert.EqualValues(t, 42, ValueInt(v))

	assert.Zero(t, ValueInt(nil))
}
