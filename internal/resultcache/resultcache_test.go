package resultcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func val(s string) *string { return &s }

func TestPutAndGetRetains(t *testing.T) {
	c := New(8, time.Minute)
	key := Key("SELECT 1", nil)

	cr := &CachedResult{
		Columns: []ColumnMeta{{Name: "id", TypeOID: 23}},
		Rows:    []Row{{Values: []*string{val("1")}, Lengths: []int{1}}},
	}
	c.Put(key, cr)
	assert.EqualValues(t, 1, cr.RefCount())

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Same(t, cr, got)
	assert.EqualValues(t, 2, got.RefCount())

	got.Release()
	assert.EqualValues(t, 1, got.RefCount())
}

func TestGetMissReturnsFalse(t *testing.T) {
	c := New(8, time.Minute)
	_, ok := c.Get(Key("SELECT 2", nil))
	assert.False(t, ok)
}

func TestKeyDistinguishesParams(t *testing.T) {
	a := Key("SELECT * FROM t WHERE id = $1", []string{"1"})
	b := Key("SELECT * FROM t WHERE id = $1", []string{"2"})
	assert.NotEqual(t, a, b)
}

func TestPurgeEmptiesCache(t *testing.T) {
	c := New(8, time.Minute)
	c.Put(Key("SELECT 3", nil), &CachedResult{})
	assert.Equal(t, 1, c.Len())
	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestNullValueHasNilPointer(t *testing.T) {
	row := Row{Values: []*string{nil, val("x")}, Lengths: []int{0, 1}}
	assert.Nil(t, row.Values[0])
	assert.Equal(t, "x", *row.Values[1])
}
