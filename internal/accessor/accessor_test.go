package accessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeCodeForOID(t *testing.T) {
	assert.Equal(t, TypeInteger, TypeCodeForOID(oidInt4))
	assert.Equal(t, TypeInteger, TypeCodeForOID(oidBool))
	assert.Equal(t, TypeFloat, TypeCodeForOID(oidFloat8))
	assert.Equal(t, TypeFloat, TypeCodeForOID(oidNumeric))
	assert.Equal(t, TypeBlob, TypeCodeForOID(oidBytea))
	assert.Equal(t, TypeText, TypeCodeForOID(25)) // text OID
}

func TestAsIntCoercesBooleanText(t *testing.T) {
	assert.EqualValues(t, 1, AsInt("t", false))
	assert.EqualValues(t, 0, AsInt("f", false))
	assert.EqualValues(t, 0, AsInt("anything", true))
}

func TestAsDoubleCoercesBooleanText(t *testing.T) {
	assert.InDelta(t, 1.0, AsDouble("t", false), 0)
	assert.InDelta(t, 0.0, AsDouble("f", false), 0)
}

func TestAsIntFallsBackToNumericParse(t *testing.T) {
	assert.EqualValues(t, 42, AsInt("42", false))
	assert.EqualValues(t, 3, AsInt("3.9", false))
}

func TestDecodeByteaRoundTrip(t *testing.T) {
	got, ok := DecodeBytea(`\x00ff4a`)
	assert.True(t, ok)
	assert.Equal(t, []byte{0x00, 0xff, 0x4a}, got)
}

func TestDecodeByteaRejectsInvalid(t *testing.T) {
	_, ok := DecodeBytea("not hex at all")
	assert.False(t, ok)

	_, ok = DecodeBytea(`\xzz`)
	assert.False(t, ok)

	_, ok = DecodeBytea(`\xabc`) // odd length
	assert.False(t, ok)
}

func TestTextRingReturnsStableSlice(t *testing.T) {
	r := NewTextRing()
	a := r.Put("hello")
	assert.Equal(t, "hello", string(a))

	for i := 0; i < TextRingSize-1; i++ {
		r.Put("filler")
	}
	assert.Equal(t, "hello", string(a), "slot not yet recycled must retain its value")
}

func TestTextRingTruncatesOversizedInput(t *testing.T) {
	r := NewTextRing()
	big := make([]byte, TextBufMaxLen+100)
	for i := range big {
		big[i] = 'x'
	}
	got := r.Put(string(big))
	assert.Len(t, got, TextBufMaxLen)
}

type fakeSource struct {
	text  map[[2]int]string
	null  map[[2]int]bool
	oid   uint32
}

func (f *fakeSource) ColumnText(row, col int) (string, bool) {
	key := [2]int{row, col}
	return f.text[key], f.null[key]
}

func (f *fakeSource) ColumnOID(col int) uint32 { return f.oid }

func TestValueRingIssuesSyntheticHandle(t *testing.T) {
	ring := NewValueRing()
	src := &fakeSource{
		text: map[[2]int]string{{0, 0}: "7"},
		null: map[[2]int]bool{},
		oid:  oidInt4,
	}
	h := ring.Issue(src, 0, 0)
	assert.True(t, IsSynthetic(h))
	assert.EqualValues(t, 7, h.Int())
	assert.Equal(t, TypeInteger, h.TypeCode())
}

func TestValueHandleNullSafe(t *testing.T) {
	h := &ValueHandle{}
	text, isNull := h.Text()
	assert.Empty(t, text)
	assert.True(t, isNull)
	assert.Equal(t, TypeNull, (&ValueHandle{magic: valueMagic, Source: &fakeSource{null: map[[2]int]bool{{0, 0}: true}}}).TypeCode())
}

func TestIsSyntheticFalseForNilOrForeign(t *testing.T) {
	assert.False(t, IsSynthetic(nil))
	assert.False(t, IsSynthetic(&ValueHandle{}))
}
