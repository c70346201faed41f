package native_test

import (
	"context"
	"testing"

	"github.com/cgnl/plex-postgresql/internal/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSession struct {
	execN  int64
	cols   []string
	rows   []native.Row
	lastID int64
	closed bool
}

func (m *mockSession) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return m.execN, nil
}
func (m *mockSession) Query(ctx context.Context, sql string, args ...any) ([]string, []native.Row, error) {
	return m.cols, m.rows, nil
}
func (m *mockSession) LastInsertID(ctx context.Context) (int64, error) { return m.lastID, nil }
func (m *mockSession) Close() error                                    { m.closed = true; return nil }

type mockEngine struct {
	session *mockSession
}

func (m mockEngine) Open(ctx context.Context, path string) (native.NativeSession, error) {
	return m.session, nil
}

func TestMockEngineSatisfiesInterface(t *testing.T) {
	sess := &mockSession{execN: 3, cols: []string{"id"}, rows: []native.Row{{int64(1)}}, lastID: 7}
	var eng native.NativeEngine = mockEngine{session: sess}

	s, err := eng.Open(context.Background(), "/tmp/whatever.db")
	require.NoError(t, err)

	n, err := s.Exec(context.Background(), "DELETE FROM t")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	cols, rows, err := s.Query(context.Background(), "SELECT id FROM t")
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, cols)
	assert.Len(t, rows, 1)

	id, err := s.LastInsertID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	require.NoError(t, s.Close())
	assert.True(t, sess.closed)
}
