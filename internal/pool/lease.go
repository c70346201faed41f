package pool

import (
	"github.com/jackc/pgx/v5"

	"github.com/cgnl/plex-postgresql/internal/stmtcache"
)

// Lease is a reference to a physical Engine-R session held by the
// pool. A lease is valid only while the owning slot's current
// generation equals the snapshot taken at acquire time and the slot's
// owner still matches this lease's session token; Valid re-verifies
// both on every call.
type Lease struct {
	pool       *Pool
	slotIndex  int
	generation uint64
	token      uint64

	lastErr      error
	lastErrCode  string
	lastChanges  int64
	lastInsertID int64
}

// Valid reports whether the lease still refers to the slot it was
// issued against.
func (l *Lease) Valid() bool {
	slot := l.pool.slots[l.slotIndex]
	return slot.generation.Load() == l.generation && slot.owner.Load() == l.token
}

// Conn returns the underlying Engine-R connection. Callers must hold
// no other goroutine concurrently using the same lease; the pool
// contract is one owner at a time.
func (l *Lease) Conn() *pgx.Conn {
	return l.pool.slots[l.slotIndex].conn
}

// StmtCache returns this lease's slot-scoped prepared-statement cache.
func (l *Lease) StmtCache() *stmtcache.Cache {
	return l.pool.slots[l.slotIndex].stmtCache
}

// SetError records the most recent failure on this lease, surfaced by
// the shim's errmsg/errcode shadowing.
func (l *Lease) SetError(err error, code string) {
	l.lastErr = err
	l.lastErrCode = code
}

// ClearError clears the lease's recorded error, mirroring a successful
// call.
func (l *Lease) ClearError() {
	l.lastErr = nil
	l.lastErrCode = ""
}

// LastError returns the most recently recorded error and its code.
func (l *Lease) LastError() (error, string) {
	return l.lastErr, l.lastErrCode
}

// SetChanges records the row count from the most recent command tag.
func (l *Lease) SetChanges(n int64) { l.lastChanges = n }

// Changes returns the row count from the most recent command tag.
func (l *Lease) Changes() int64 { return l.lastChanges }

// SetLastInsertID records the value last returned by lastval().
func (l *Lease) SetLastInsertID(id int64) { l.lastInsertID = id }

// LastInsertID returns the value last returned by lastval().
func (l *Lease) LastInsertID() int64 { return l.lastInsertID }

// MarkUnhealthy transitions the owning slot to ERROR, so the next
// acquisition against it attempts a reconnect.
func (l *Lease) MarkUnhealthy() {
	l.pool.markSlotError(l.slotIndex)
}

// Release returns the lease to the pool. The underlying session is not
// closed; it becomes eligible for reuse by a different session token.
func (l *Lease) Release() {
	l.pool.release(l)
}
