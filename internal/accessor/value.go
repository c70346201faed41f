package accessor

import (
	"sync"
	"sync/atomic"
)

// ValueRingSize is the fixed ring capacity from §3: a power of two, the
// design target of 256 live synthetic handles system-wide.
const ValueRingSize = 256

// valueMagic is the fixed bit pattern that marks a ValueHandle as
// synthetic rather than an Engine-L-native opaque pointer. Sixty-four
// bits of an arbitrary, non-zero, non-power-of-two pattern satisfies
// the ≥ 2⁻⁶⁰ false-identification bound rule 7 asks for.
const valueMagic uint64 = 0x76616c68646c5f21

// ResultSource is the narrow view a ValueHandle needs back into its
// owning result set: enough to answer a getter, nothing that would
// require importing the statement package here and creating an import
// cycle (statement depends on accessor, not the reverse).
type ResultSource interface {
	ColumnText(row, col int) (text string, isNull bool)
	ColumnOID(col int) uint32
}

// ValueHandle is the synthetic opaque pointer column_value returns.
type ValueHandle struct {
	magic  uint64
	Source ResultSource
	Row    int
	Col    int
}

// ValueRing is the fixed-capacity, recycled-without-freeing allocator
// for ValueHandles described in §3's ValueHandle lifecycle.
type ValueRing struct {
	mu    sync.Mutex
	slots [ValueRingSize]ValueHandle
	ctr   atomic.Uint64
}

// NewValueRing builds an empty ring.
func NewValueRing() *ValueRing { return &ValueRing{} }

// Issue hands out the next ring slot for (src, row, col), overwriting
// whatever synthetic handle previously lived there. A caller still
// holding a handle to an overwritten slot observes stale data, per the
// ring-capacity invariant in §5 — callers must never hold more than
// ValueRingSize live handles at once.
func (r *ValueRing) Issue(src ResultSource, row, col int) *ValueHandle {
	idx := r.ctr.Add(1) & uint64(ValueRingSize-1)

	r.mu.Lock()
	defer r.mu.Unlock()
	h := &r.slots[idx]
	h.magic = valueMagic
	h.Source = src
	h.Row = row
	h.Col = col
	return h
}

// IsSynthetic reports whether h was issued by a ValueRing, versus an
// Engine-L-native value pointer the core must fall through on.
func IsSynthetic(h *ValueHandle) bool {
	return h != nil && h.magic == valueMagic
}

// Text dispatches back to the owning result for the handle's (row,
// col), NULL-safe per rule 7.
func (h *ValueHandle) Text() (text string, isNull bool) {
	if h == nil || h.Source == nil {
		return "", true
	}
	return h.Source.ColumnText(h.Row, h.Col)
}

// Int implements value_int/value_int64 for a synthetic handle.
func (h *ValueHandle) Int() int64 {
	text, isNull := h.Text()
	return AsInt(text, isNull)
}

// Double implements value_double for a synthetic handle.
func (h *ValueHandle) Double() float64 {
	text, isNull := h.Text()
	return AsDouble(text, isNull)
}

// TypeCode implements value_type for a synthetic handle.
func (h *ValueHandle) TypeCode() TypeCode {
	text, isNull := h.Text()
	if isNull {
		return TypeNull
	}
	if h.Source == nil {
		return TypeText
	}
	return TypeCodeForOID(h.Source.ColumnOID(h.Col))
}

// Blob implements value_blob: hex-text decode with no per-row cache,
// since a ValueHandle is a one-off read rather than a repeated
// same-row access pattern like column_blob's.
func (h *ValueHandle) Blob() []byte {
	text, isNull := h.Text()
	if isNull {
		return nil
	}
	decoded, ok := DecodeBytea(text)
	if !ok {
		return nil
	}
	return decoded
}

// Bytes implements value_bytes: the decoded blob length.
func (h *ValueHandle) Bytes() int {
	return len(h.Blob())
}
