package shim

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cgnl/plex-postgresql/internal/config"
	"github.com/cgnl/plex-postgresql/internal/execengine"
	"github.com/cgnl/plex-postgresql/internal/native"
	"github.com/cgnl/plex-postgresql/internal/pool"
)

// defaultHealthInterval is how often the pool's slots are pinged; not
// exposed in Config since it is an internal resilience knob, not a
// behavior the host needs to tune.
const defaultHealthInterval = 30 * time.Second

// Runtime is the process-wide state a host links against: one Engine-R
// pool, one native fallback engine, one execution engine, built once
// from a Config the way the teacher's wire providers assembled a
// *types.StagingPool/*types.TargetPool pair — by hand here, since this
// module has exactly one wiring to do rather than a family of
// source-specific binaries.
type Runtime struct {
	engine     *execengine.Engine
	pool       *pool.Pool
	collations collationSet
}

// New builds a Runtime from cfg, returning it along with a cleanup
// function (closes the pool) and any preflight error, mirroring the
// teacher's (value, cleanup, error) provider return shape.
func New(cfg *config.Config) (*Runtime, func(), error) {
	if err := cfg.Preflight(); err != nil {
		return nil, nil, err
	}

	p := pool.New(cfg.PoolSize, pool.DialConnector(cfg.DSN()), pool.WithStmtCacheSize(cfg.StmtCacheSize))
	stopHealth := p.StartHealthLoop(context.Background(), defaultHealthInterval)

	eng := execengine.New(cfg, p, native.SQLiteEngine{})

	rt := &Runtime{engine: eng, pool: p, collations: newCollationSet(cfg)}
	cleanup := func() {
		stopHealth()
		p.Close(context.Background())
	}
	return rt, cleanup, nil
}

// Open implements open/open_v2: path is redirected per cfg's patterns,
// otherwise it falls through entirely to the native engine.
func (rt *Runtime) Open(ctx context.Context, path string) (*Handle, Code) {
	id, err := rt.engine.Open(ctx, path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("open failed")
		return nil, codeFor(err)
	}
	return &Handle{id: id, rt: rt}, CodeOK
}
