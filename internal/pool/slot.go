// Package pool implements the connection substrate: a fixed-size array
// of PoolSlots, each holding one physical Engine-R session, leased to
// LogicalHandles with session-token affinity, health tracking, and a
// per-slot prepared-statement cache.
package pool

import (
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5"

	"github.com/cgnl/plex-postgresql/internal/stmtcache"
)

// SlotState is a PoolSlot's lifecycle state.
type SlotState int32

const (
	// StateFree means the slot holds no owner and may be claimed.
	StateFree SlotState = iota
	// StateReserved is the brief window between a CAS claim and the
	// slot's session being opened or confirmed usable.
	StateReserved
	// StateReady means the slot's session is usable by its owner.
	StateReady
	// StateReconnecting means a previously ERROR slot is being retried.
	StateReconnecting
	// StateError means the slot's session is known unusable; the next
	// acquisition attempt will try to reconnect it.
	StateError
)

// PoolSlot is one physical Engine-R session managed by the pool.
// Everything except conn and stmtCache is touched via atomics so the
// hint fast path (§4.5) never takes a lock.
type PoolSlot struct {
	// mu serializes access to conn: no two goroutines may use the same
	// physical session concurrently.
	mu sync.Mutex

	state      atomic.Int32
	generation atomic.Uint64
	owner      atomic.Uint64 // session token of the current owner, 0 when FREE

	conn      *pgx.Conn
	stmtCache *stmtcache.Cache
}

func (s *PoolSlot) casState(from, to SlotState) bool {
	return s.state.CompareAndSwap(int32(from), int32(to))
}

func (s *PoolSlot) getState() SlotState {
	return SlotState(s.state.Load())
}
