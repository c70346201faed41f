// Package trylock implements the bounded trylock-with-retry pattern the
// pool uses on paths that must never block indefinitely against the
// host's own locks: a fixed number of TryLock attempts separated by a
// short sleep, giving up with a deterministic error rather than
// deadlocking.
package trylock

import (
	"sync"
	"time"

	"github.com/cgnl/plex-postgresql/internal/errs"
)

// DefaultAttempts and DefaultInterval match the design target of
// roughly 10 attempts spaced 1ms apart.
const (
	DefaultAttempts = 10
	DefaultInterval = time.Millisecond
)

// Acquire attempts to TryLock mu up to attempts times, sleeping interval
// between attempts. It returns a KindResourcePressure error if every
// attempt fails, and never blocks longer than attempts*interval.
func Acquire(mu *sync.Mutex, attempts int, interval time.Duration) error {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	for i := 0; i < attempts; i++ {
		if mu.TryLock() {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(interval)
		}
	}
	return errs.New(errs.KindResourcePressure, "exhausted trylock attempts")
}

// Do runs fn while holding mu, acquired via Acquire with the package
// defaults, releasing the lock before returning.
func Do(mu *sync.Mutex, fn func() error) error {
	if err := Acquire(mu, DefaultAttempts, DefaultInterval); err != nil {
		return err
	}
	defer mu.Unlock()
	return fn()
}
