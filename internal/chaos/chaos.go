// Package chaos injects probabilistic failures into a Connector or a
// NativeSession for tests that need to exercise session-failure and
// resource-pressure error kinds (§7) without a live flaky Engine-R or
// Engine-L.
package chaos

import (
	"context"
	"math/rand"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/cgnl/plex-postgresql/internal/native"
	"github.com/cgnl/plex-postgresql/internal/pool"
)

// ErrChaos is the error every injected failure wraps, so a test can
// recognize a chaos-induced failure versus a genuine bug with
// errors.Is.
var ErrChaos = errors.New("chaos")

func doChaos(msg string) error {
	return errors.WithMessage(ErrChaos, msg)
}

// WithConnector wraps delegate so that a fraction prob of calls fail
// with ErrChaos instead of dialing, simulating Engine-R connection
// churn. A non-positive prob returns delegate unwrapped.
func WithConnector(delegate pool.Connector, prob float32) pool.Connector {
	if prob <= 0 {
		return delegate
	}
	return func(ctx context.Context) (*pgx.Conn, error) {
		if rand.Float32() < prob {
			return nil, doChaos("connect")
		}
		return delegate(ctx)
	}
}

// Session wraps a native.NativeSession, injecting ErrChaos into a
// fraction prob of Exec/Query calls, leaving LastInsertID and Close
// untouched since neither is in internal/execengine's error-handling
// path.
type Session struct {
	delegate native.NativeSession
	prob     float32
}

var _ native.NativeSession = (*Session)(nil)

// WithSession wraps delegate so that a fraction prob of Exec/Query
// calls fail with ErrChaos. A non-positive prob returns delegate
// unwrapped.
func WithSession(delegate native.NativeSession, prob float32) native.NativeSession {
	if prob <= 0 {
		return delegate
	}
	return &Session{delegate: delegate, prob: prob}
}

func (s *Session) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	if rand.Float32() < s.prob {
		return 0, doChaos("exec")
	}
	return s.delegate.Exec(ctx, sql, args...)
}

func (s *Session) Query(ctx context.Context, sql string, args ...any) ([]string, []native.Row, error) {
	if rand.Float32() < s.prob {
		return nil, nil, doChaos("query")
	}
	return s.delegate.Query(ctx, sql, args...)
}

func (s *Session) LastInsertID(ctx context.Context) (int64, error) {
	return s.delegate.LastInsertID(ctx)
}

func (s *Session) Close() error {
	return s.delegate.Close()
}
