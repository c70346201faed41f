package pool

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/cgnl/plex-postgresql/internal/errs"
	"github.com/cgnl/plex-postgresql/internal/metrics"
	"github.com/cgnl/plex-postgresql/internal/stmtcache"
	"github.com/cgnl/plex-postgresql/internal/trylock"
)

// Connector opens one physical Engine-R session. Production callers use
// DialConnector (below); tests substitute a fake to avoid a live
// server.
type Connector func(ctx context.Context) (*pgx.Conn, error)

// Option configures a Pool at construction time, matching the
// functional-option shape used throughout this module's connection
// helpers.
type Option func(*Pool)

// WithStmtCacheSize overrides the per-slot prepared-statement cache
// capacity; the default is 256.
func WithStmtCacheSize(n int) Option {
	return func(p *Pool) { p.stmtCacheSize = n }
}

// WithConnector overrides how a slot opens its physical session,
// primarily for tests.
func WithConnector(c Connector) Option {
	return func(p *Pool) { p.connector = c }
}

// DialConnector returns a Connector that dials Engine-R over the given
// DSN, the production default.
func DialConnector(dsn string) Connector {
	return func(ctx context.Context) (*pgx.Conn, error) {
		conn, err := pgx.Connect(ctx, dsn)
		return conn, errors.Wrap(err, "dial engine-r")
	}
}

// Pool owns a bounded set of Engine-R physical sessions and leases them
// to LogicalHandles with session-token affinity.
type Pool struct {
	slots         []*PoolSlot
	connector     Connector
	stmtCacheSize int

	// scanMu guards the FREE-slot scan; acquired with bounded
	// trylock-with-retry rather than a blocking lock, since the scan can
	// run on a host thread that itself holds a host-side lock (§5).
	scanMu sync.Mutex
}

// New builds a Pool with size slots, none yet connected.
func New(size int, connector Connector, opts ...Option) *Pool {
	p := &Pool{
		slots:         make([]*PoolSlot, size),
		connector:     connector,
		stmtCacheSize: 256,
	}
	for _, o := range opts {
		o(p)
	}
	for i := range p.slots {
		p.slots[i] = &PoolSlot{}
		p.slots[i].stmtCache = stmtcache.New(p.stmtCacheSize)
	}
	return p
}

// Acquire returns a Lease for the caller identified by token, consulting
// hint first. hint may be nil for a caller with no prior lease.
func (p *Pool) Acquire(ctx context.Context, token uint64, hint *Hint) (*Lease, error) {
	start := time.Now()

	if hint != nil && hint.valid.Load() {
		slot := p.slots[hint.slotIndex]
		if slot.getState() == StateReady && slot.generation.Load() == hint.generation && slot.owner.Load() == token {
			metrics.PoolAcquireTotal.WithLabelValues("hint_hit").Inc()
			metrics.PoolAcquireDuration.WithLabelValues("hint_hit").Observe(time.Since(start).Seconds())
			return &Lease{pool: p, slotIndex: hint.slotIndex, generation: hint.generation, token: token}, nil
		}
		hint.clear()
	}

	if err := trylock.Acquire(&p.scanMu, trylock.DefaultAttempts, trylock.DefaultInterval); err != nil {
		metrics.PoolAcquireTotal.WithLabelValues("scan_lock_exhausted").Inc()
		return nil, err
	}
	defer p.scanMu.Unlock()

	for i, slot := range p.slots {
		switch slot.getState() {
		case StateFree:
			if !slot.casState(StateFree, StateReserved) {
				continue
			}
			conn := slot.conn
			if conn == nil {
				var err error
				conn, err = p.connect(ctx, slot)
				if err != nil {
					slot.state.Store(int32(StateFree))
					metrics.PoolAcquireTotal.WithLabelValues("connect_error").Inc()
					return nil, errs.Wrap(errs.KindSession, err, "open engine-r session")
				}
			}
			slot.conn = conn
			gen := slot.generation.Add(1)
			slot.owner.Store(token)
			slot.state.Store(int32(StateReady))

			if hint != nil {
				hint.set(i, gen)
			}
			metrics.PoolAcquireTotal.WithLabelValues("claimed_free").Inc()
			metrics.PoolAcquireDuration.WithLabelValues("claimed_free").Observe(time.Since(start).Seconds())
			return &Lease{pool: p, slotIndex: i, generation: gen, token: token}, nil

		case StateError:
			if !slot.casState(StateError, StateReconnecting) {
				continue
			}
			conn, err := p.connect(ctx, slot)
			if err != nil {
				slot.state.Store(int32(StateError))
				continue
			}
			slot.conn = conn
			slot.stmtCache.Invalidate()
			gen := slot.generation.Add(1)
			slot.owner.Store(token)
			slot.state.Store(int32(StateReady))

			if hint != nil {
				hint.set(i, gen)
			}
			metrics.PoolAcquireTotal.WithLabelValues("reconnected").Inc()
			metrics.PoolAcquireDuration.WithLabelValues("reconnected").Observe(time.Since(start).Seconds())
			return &Lease{pool: p, slotIndex: i, generation: gen, token: token}, nil
		}
	}

	metrics.PoolAcquireTotal.WithLabelValues("exhausted").Inc()
	return nil, errs.New(errs.KindResourcePressure, "connection pool exhausted")
}

func (p *Pool) connect(ctx context.Context, slot *PoolSlot) (*pgx.Conn, error) {
	return p.connector(ctx)
}

// release transitions the lease's slot back to FREE without closing the
// underlying session, per §4.5 "Release" and the resolved Open Question
// on close-handle-vs-close-pool (DESIGN.md).
func (p *Pool) release(l *Lease) {
	slot := p.slots[l.slotIndex]
	if slot.generation.Load() != l.generation || slot.owner.Load() != l.token {
		// Stale release racing a reconnect/reclaim; nothing to do.
		return
	}
	l.ClearError()
	slot.owner.Store(0)
	if slot.casState(StateReady, StateFree) {
		slot.stmtCache.Invalidate()
	}
}

// markSlotError transitions a slot to ERROR so the next acquisition
// against it attempts a reconnect, per the health-check design.
func (p *Pool) markSlotError(slotIndex int) {
	slot := p.slots[slotIndex]
	slot.state.Store(int32(StateError))
	slot.stmtCache.Invalidate()
	log.WithField("slot", slotIndex).Warn("engine-r session marked unhealthy")
}

// Close closes every slot's underlying session. Intended for process
// shutdown only; a live lease's session must never be closed out from
// under it.
func (p *Pool) Close(ctx context.Context) {
	for _, slot := range p.slots {
		slot.mu.Lock()
		if slot.conn != nil {
			_ = slot.conn.Close(ctx)
			slot.conn = nil
		}
		slot.mu.Unlock()
	}
}
