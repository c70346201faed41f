// Package execengine implements §4.4/§4.6: translating Engine-L calls
// into Engine-R commands, the prepared-statement cache, error
// shadowing, last_insert_rowid/changes, and metadata-on-demand.
package execengine

import (
	"context"
	"strconv"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/cgnl/plex-postgresql/internal/accessor"
	"github.com/cgnl/plex-postgresql/internal/config"
	"github.com/cgnl/plex-postgresql/internal/errs"
	"github.com/cgnl/plex-postgresql/internal/handle"
	"github.com/cgnl/plex-postgresql/internal/native"
	"github.com/cgnl/plex-postgresql/internal/pool"
	"github.com/cgnl/plex-postgresql/internal/statement"
	"github.com/cgnl/plex-postgresql/internal/translator"
)

// StepResult mirrors the three step() outcomes the core surfaces for
// normal flow.
type StepResult int

const (
	StepRow StepResult = iota
	StepDone
	StepError
)

// Engine is the process-wide orchestrator tying the registries, pool,
// translator, and native fallback together behind the upward ABI
// surface implemented by the root shim package.
type Engine struct {
	Registry *handle.Registry

	pool       *pool.Pool
	nativeEng  native.NativeEngine
	cfg        *config.Config
	tokenCtr   atomic.Uint64
}

// New builds an Engine over an already-constructed pool and native
// fallback engine.
func New(cfg *config.Config, p *pool.Pool, nativeEng native.NativeEngine) *Engine {
	return &Engine{
		Registry: handle.NewRegistry(),
		pool:     p,
		nativeEng: nativeEng,
		cfg:      cfg,
	}
}

// Open opens path, redirecting to Engine-R when cfg.Redirects(path);
// otherwise it falls through to the native engine entirely.
func (e *Engine) Open(ctx context.Context, path string) (uint64, error) {
	redirected := e.cfg.Redirects(path)
	token := e.tokenCtr.Add(1)

	var nativeSession native.NativeSession
	if !redirected {
		sess, err := e.nativeEng.Open(ctx, path)
		if err != nil {
			return 0, errs.Wrap(errs.KindSession, err, "open engine-l native session")
		}
		nativeSession = sess
	}

	id := e.Registry.Open(e.pool, path, redirected, token, nativeSession)
	return id, nil
}

// Close closes a LogicalHandle, returning its lease (if any) to the
// pool and closing any native session.
func (e *Engine) Close(id uint64) {
	e.Registry.Close(id)
}

// Prepare implements prepare/prepare_v2/prepare_v3.
func (e *Engine) Prepare(ctx context.Context, handleID uint64, sql string) (uint64, error) {
	h, ok := e.Registry.Handle(handleID)
	if !ok {
		return 0, errs.New(errs.KindMisuse, "unknown handle")
	}

	if !h.Redirected {
		// A native fallthrough statement keeps its SQL unchanged — it is
		// native already — so the translated SQL is discarded; only the
		// translator's placeholder count and name list are used, to size
		// the parameter vector, since
		// Engine-L accepts the same `?`/`:name`/`@name` placeholder forms.
		counted := translator.Translate(sql)
		rec := statement.New(h, sql, sql, counted.ParamNames, counted.ParamCount)
		rec.Native = h.NativeSession
		return e.Registry.RegisterStatement(rec), nil
	}

	if translator.IsSkipPattern(sql) {
		noteSkip()
		rec := statement.New(h, sql, sql, nil, 0)
		rec.Skipped = true
		return e.Registry.RegisterStatement(rec), nil
	}

	result := translator.Translate(sql)
	rec := statement.New(h, sql, result.SQL, result.ParamNames, result.ParamCount)
	return e.Registry.RegisterStatement(rec), nil
}

// BindInt64 implements bind_int/bind_int64. i is 1-based.
func (e *Engine) BindInt64(stmtID uint64, i int, v int64) error {
	return e.bind(stmtID, i, strconv.FormatInt(v, 10), false)
}

// BindDouble implements bind_double.
func (e *Engine) BindDouble(stmtID uint64, i int, v float64) error {
	return e.bind(stmtID, i, strconv.FormatFloat(v, 'g', -1, 64), false)
}

// BindText implements bind_text.
func (e *Engine) BindText(stmtID uint64, i int, v string) error {
	return e.bind(stmtID, i, v, false)
}

// BindBlob implements bind_blob, hex-encoding the payload the way
// Engine-R expects a text-format bytea parameter.
func (e *Engine) BindBlob(stmtID uint64, i int, v []byte) error {
	return e.bind(stmtID, i, accessor.EncodeBytea(v), false)
}

// BindNull implements bind_null.
func (e *Engine) BindNull(stmtID uint64, i int) error {
	return e.bind(stmtID, i, "", true)
}

func (e *Engine) bind(stmtID uint64, i int, text string, isNull bool) error {
	rec, ok := e.Registry.Statement(stmtID)
	if !ok {
		return errs.New(errs.KindMisuse, "unknown statement")
	}
	return rec.Bind(i, text, isNull)
}

// ClearBindings implements clear_bindings.
func (e *Engine) ClearBindings(stmtID uint64) error {
	rec, ok := e.Registry.Statement(stmtID)
	if !ok {
		return errs.New(errs.KindMisuse, "unknown statement")
	}
	rec.ClearBindings()
	return nil
}

// Reset implements reset(): discards the in-flight result, preserves
// bindings.
func (e *Engine) Reset(stmtID uint64) error {
	rec, ok := e.Registry.Statement(stmtID)
	if !ok {
		return errs.New(errs.KindMisuse, "unknown statement")
	}
	rec.ResetResult()
	return nil
}

// Finalize implements finalize(): removes the StatementRecord.
func (e *Engine) Finalize(stmtID uint64) {
	e.Registry.Finalize(stmtID)
}

// loggedSkipNote lets noteSkip narrow the "skip pattern" note to once per process; a
// redirected-database skip statement is a normal, expected occurrence,
// not worth a log line per call.
var loggedSkipNote atomic.Bool

func noteSkip() {
	if loggedSkipNote.CompareAndSwap(false, true) {
		log.Debug("skip-pattern statements are recognized and trivially succeeded without reaching engine-r")
	}
}
