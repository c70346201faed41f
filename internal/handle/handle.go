// Package handle implements the global handle and statement registries
// (§3/§5): a LogicalHandle per host-visible database connection, and
// the mutex-guarded maps that let the shim's entry points look either
// up from the raw identifiers the host passes across the ABI boundary.
package handle

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cgnl/plex-postgresql/internal/native"
	"github.com/cgnl/plex-postgresql/internal/pool"
	"github.com/cgnl/plex-postgresql/internal/statement"
)

// LogicalHandle is the database handle the host observes (open/close).
// It owns exactly one pool lease at a time — acquired lazily on first
// use, released (not closed) when the handle closes, mirroring the
// "closing a handle always returns the lease; the session is closed
// only when the pool scavenges it" resolution of the open question in
// spec.md §9.
type LogicalHandle struct {
	ID           uint64
	Path         string
	Redirected   bool
	SessionToken uint64

	// NativeSession is set instead of a lease for an unredirected
	// handle: everything falls through to Engine-L's own engine.
	NativeSession native.NativeSession

	mu       sync.Mutex
	lease    *pool.Lease
	hint     pool.Hint
	lastErr  error
	lastCode string

	pool *pool.Pool
}

// Lease returns the handle's currently active lease, or nil if none is
// held; it never acquires one (see Acquire). Implements
// statement.HandleRef.
func (h *LogicalHandle) Lease() *pool.Lease {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lease
}

// Acquire obtains (or reuses) this handle's lease from its pool.
func (h *LogicalHandle) Acquire(ctx context.Context) (*pool.Lease, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lease != nil && h.lease.Valid() {
		return h.lease, nil
	}
	lease, err := h.pool.Acquire(ctx, h.SessionToken, &h.hint)
	if err != nil {
		return nil, err
	}
	h.lease = lease
	return lease, nil
}

// Release returns the handle's lease to the pool without closing the
// underlying session.
func (h *LogicalHandle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lease != nil {
		h.lease.Release()
		h.lease = nil
	}
}

// SetError records the most recent failure for errmsg/errcode
// shadowing (§4.4, §7).
func (h *LogicalHandle) SetError(err error, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastErr = err
	h.lastCode = code
}

// ClearError clears the handle's recorded error, mirroring a
// successful call.
func (h *LogicalHandle) ClearError() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastErr = nil
	h.lastCode = ""
}

// LastError returns the most recently recorded error and code.
func (h *LogicalHandle) LastError() (error, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr, h.lastCode
}

// Registry is the global, mutex-guarded map from an opaque ABI
// identifier to its LogicalHandle or StatementRecord. Lookups are brief
// pointer fetches; callers must never hold the registry's lock while
// calling into Engine-R or Engine-L (§5 lock discipline).
type Registry struct {
	mu      sync.Mutex
	handles map[uint64]*LogicalHandle
	stmts   map[uint64]*statement.Record
	nextID  atomic.Uint64
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		handles: make(map[uint64]*LogicalHandle),
		stmts:   make(map[uint64]*statement.Record),
	}
}

// Open creates and registers a new LogicalHandle for path, returning
// the ABI-visible identifier the host will use in subsequent calls.
// nativeSession is non-nil exactly when the handle is unredirected.
func (r *Registry) Open(p *pool.Pool, path string, redirected bool, sessionToken uint64, nativeSession native.NativeSession) uint64 {
	id := r.nextID.Add(1)
	h := &LogicalHandle{
		ID:            id,
		Path:          path,
		Redirected:    redirected,
		SessionToken:  sessionToken,
		NativeSession: nativeSession,
		pool:          p,
	}

	r.mu.Lock()
	r.handles[id] = h
	r.mu.Unlock()
	return id
}

// Handle looks up a LogicalHandle by its ABI identifier.
func (r *Registry) Handle(id uint64) (*LogicalHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[id]
	return h, ok
}

// Close releases and removes a LogicalHandle.
func (r *Registry) Close(id uint64) {
	r.mu.Lock()
	h, ok := r.handles[id]
	delete(r.handles, id)
	r.mu.Unlock()
	if !ok {
		return
	}
	h.Release()
	if h.NativeSession != nil {
		_ = h.NativeSession.Close()
	}
}

// RegisterStatement assigns a new ABI identifier to rec and registers
// it.
func (r *Registry) RegisterStatement(rec *statement.Record) uint64 {
	id := r.nextID.Add(1)
	r.mu.Lock()
	r.stmts[id] = rec
	r.mu.Unlock()
	return id
}

// Statement looks up a StatementRecord by its ABI identifier.
func (r *Registry) Statement(id uint64) (*statement.Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.stmts[id]
	return rec, ok
}

// Finalize removes a StatementRecord from the registry.
func (r *Registry) Finalize(id uint64) {
	r.mu.Lock()
	delete(r.stmts, id)
	r.mu.Unlock()
}
