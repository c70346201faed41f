package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgnl/plex-postgresql/internal/accessor"
	"github.com/cgnl/plex-postgresql/internal/errs"
)

func strp(s string) *string { return &s }

func newTestRecord() *Record {
	return New(nil, "SELECT 1", "SELECT 1", nil, 1)
}

func TestBindAndBindArgs(t *testing.T) {
	r := newTestRecord()
	require.NoError(t, r.Bind(1, "7", false))
	args := r.BindArgs()
	require.Len(t, args, 1)
	assert.Equal(t, "7", args[0])
}

func TestBindOutOfRangeIsMisuse(t *testing.T) {
	r := newTestRecord()
	err := r.Bind(2, "x", false)
	require.Error(t, err)
	assert.Equal(t, errs.KindMisuse, errs.KindOf(err))
}

func TestBindOverwritesAndClearBindings(t *testing.T) {
	r := newTestRecord()
	require.NoError(t, r.Bind(1, "1", false))
	require.NoError(t, r.Bind(1, "2", false))
	assert.Equal(t, "2", r.BindArgs()[0])

	r.ClearBindings()
	assert.Nil(t, r.BindArgs()[0])
}

func TestParamIndexAndName(t *testing.T) {
	r := New(nil, "", "", []string{"id", "name"}, 2)
	assert.Equal(t, 1, r.ParamIndex("id"))
	assert.Equal(t, 2, r.ParamIndex("name"))
	assert.Equal(t, 0, r.ParamIndex("missing"))
	assert.Equal(t, "name", r.ParamNameAt(2))
	assert.Equal(t, "", r.ParamNameAt(99))
}

func TestLoadResultAndAdvance(t *testing.T) {
	r := newTestRecord()
	r.LoadResult(
		[]ColumnMeta{{Name: "id", OID: 23}},
		[]Row{{Values: []*string{strp("1")}}, {Values: []*string{strp("2")}}},
	)
	assert.Equal(t, -1, r.CurrentRow())
	assert.Equal(t, 0, r.DataCount(), "before first step, data_count is 0")

	assert.True(t, r.Advance())
	assert.Equal(t, 0, r.CurrentRow())
	assert.EqualValues(t, 1, r.ColumnInt(0))
	assert.Equal(t, 1, r.DataCount())

	assert.True(t, r.Advance())
	assert.EqualValues(t, 2, r.ColumnInt(0))

	assert.False(t, r.Advance(), "no more rows")
	assert.Equal(t, 0, r.DataCount())
}

func TestResetResultPreservesBindings(t *testing.T) {
	r := newTestRecord()
	require.NoError(t, r.Bind(1, "5", false))
	r.LoadResult([]ColumnMeta{{Name: "id"}}, []Row{{Values: []*string{strp("5")}}})
	r.Advance()

	r.ResetResult()
	assert.Equal(t, -1, r.CurrentRow())
	assert.False(t, r.HasResult())
	assert.Equal(t, "5", r.BindArgs()[0])
}

func TestOutOfRangeAccessorsReturnZero(t *testing.T) {
	r := newTestRecord()
	r.LoadResult([]ColumnMeta{{Name: "id", OID: 23}}, []Row{{Values: []*string{strp("1")}}})
	r.Advance()

	assert.EqualValues(t, 0, r.ColumnInt(99))
	assert.Equal(t, accessor.TypeNull, r.ColumnType(99))
	assert.Equal(t, "", r.ColumnName(99))
}

func TestColumnBlobDecodesAndCachesPerRow(t *testing.T) {
	r := newTestRecord()
	r.LoadResult(
		[]ColumnMeta{{Name: "data", OID: 17}},
		[]Row{{Values: []*string{strp(`\x68656c6c6f`)}}},
	)
	r.Advance()

	got := r.ColumnBlob(0)
	assert.Equal(t, []byte("hello"), got)
	assert.Equal(t, len("hello"), r.ColumnBytes(0))
}

func TestColumnValueIsSyntheticAndMatchesColumnGetter(t *testing.T) {
	r := newTestRecord()
	r.LoadResult([]ColumnMeta{{Name: "n", OID: 23}}, []Row{{Values: []*string{strp("42")}}})
	r.Advance()

	h := r.ColumnValue(0)
	require.True(t, accessor.IsSynthetic(h))
	assert.Equal(t, r.ColumnInt(0), h.Int())
}

func TestColumnDecltypeMapsOID(t *testing.T) {
	r := newTestRecord()
	r.LoadResult([]ColumnMeta{{Name: "n", OID: 23}}, nil)
	assert.Equal(t, "integer", r.ColumnDecltype(0))
}

func TestBooleanTextCoercion(t *testing.T) {
	r := newTestRecord()
	r.LoadResult([]ColumnMeta{{Name: "b", OID: 16}}, []Row{{Values: []*string{strp("t")}}})
	r.Advance()

	assert.EqualValues(t, 1, r.ColumnInt(0))
	assert.InDelta(t, 1.0, r.ColumnDouble(0), 0)
	text, isNull := r.ColumnTextPtr(0)
	assert.False(t, isNull)
	assert.Equal(t, "t", string(text))
}
