package pool

import "sync/atomic"

// Hint is the per-LogicalHandle cached (slot index, generation) pair
// that lets repeated Acquire calls from the same session skip the
// slot-array scan. spec.md describes this as a per-thread cached hint;
// since Go has no stable OS-thread identity accessible to library code,
// the hint is instead owned by the caller (the LogicalHandle), which
// passes its session token to Acquire alongside it; the Hint itself
// holds no token. See SPEC_FULL.md §4.5.
type Hint struct {
	valid      atomic.Bool
	slotIndex  int
	generation uint64
}

func (h *Hint) set(slotIndex int, generation uint64) {
	h.slotIndex = slotIndex
	h.generation = generation
	h.valid.Store(true)
}

func (h *Hint) clear() {
	h.valid.Store(false)
}
