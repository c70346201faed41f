package pool

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// StartHealthLoop periodically pings every READY slot and every FREE
// slot's idle connection, marking a slot ERROR on failure so the next
// Acquire against it retries the connect. It returns a stop function;
// callers should defer it at shutdown.
func (p *Pool) StartHealthLoop(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				p.checkAll(ctx)
			}
		}
	}()

	return func() { close(done) }
}

func (p *Pool) checkAll(ctx context.Context) {
	for i, slot := range p.slots {
		state := slot.getState()
		if state != StateReady && state != StateFree {
			continue
		}
		slot.mu.Lock()
		conn := slot.conn
		slot.mu.Unlock()
		if conn == nil {
			continue
		}
		if err := conn.Ping(ctx); err != nil {
			log.WithError(err).WithField("slot", i).Warn("engine-r health check failed")
			p.markSlotError(i)
		}
	}
}
