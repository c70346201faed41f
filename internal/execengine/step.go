package execengine

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/cgnl/plex-postgresql/internal/errs"
	"github.com/cgnl/plex-postgresql/internal/metrics"
	"github.com/cgnl/plex-postgresql/internal/native"
	"github.com/cgnl/plex-postgresql/internal/statement"
	"github.com/cgnl/plex-postgresql/internal/stmtcache"
)

var queryShapeRe = regexp.MustCompile(`(?i)^\s*(SELECT|WITH|VALUES|EXPLAIN|SHOW|TABLE)\b`)

func looksLikeQuery(sql string) bool {
	return queryShapeRe.MatchString(sql)
}

// Step implements step(): the first call on a statement executes it
// against Engine-R or Engine-L's native engine; subsequent calls
// advance through the materialized result.
func (e *Engine) Step(ctx context.Context, stmtID uint64) (StepResult, error) {
	rec, ok := e.Registry.Statement(stmtID)
	if !ok {
		return StepError, errs.New(errs.KindMisuse, "unknown statement")
	}

	if rec.Skipped {
		return StepDone, nil
	}

	var err error
	if !rec.HasResult() {
		if rec.IsNative() {
			err = e.executeNative(ctx, rec)
		} else {
			err = e.executeRemote(ctx, rec)
		}
		if err != nil {
			return StepError, err
		}
	}

	if rec.Advance() {
		return StepRow, nil
	}
	return StepDone, nil
}

func (e *Engine) executeNative(ctx context.Context, rec *statement.Record) error {
	args := rec.BindArgs()
	if looksLikeQuery(rec.TranslatedSQL) {
		cols, rows, err := rec.Native.Query(ctx, rec.TranslatedSQL, args...)
		if err != nil {
			return errs.Wrap(errs.KindRemote, err, "native query")
		}
		rec.LoadResult(nativeColumnMeta(cols), nativeRows(rows))
		return nil
	}

	n, err := rec.Native.Exec(ctx, rec.TranslatedSQL, args...)
	if err != nil {
		return errs.Wrap(errs.KindRemote, err, "native exec")
	}
	rec.SetChanges(n)
	rec.LoadResult(nil, nil)
	return nil
}

func nativeColumnMeta(cols []string) []statement.ColumnMeta {
	out := make([]statement.ColumnMeta, len(cols))
	for i, c := range cols {
		out[i] = statement.ColumnMeta{Name: c}
	}
	return out
}

func nativeRows(rows []native.Row) []statement.Row {
	out := make([]statement.Row, len(rows))
	for i, row := range rows {
		vals := make([]*string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			s := fmt.Sprint(v)
			vals[j] = &s
		}
		out[i] = statement.Row{Values: vals}
	}
	return out
}

// executeRemote runs rec's translated SQL against the owning handle's
// leased Engine-R session over the simple text protocol, so every
// result value arrives in Postgres's text wire encoding (§4.3 rule 2's
// boolean text, §4.3 rule 5's hex bytea) rather than pgx's default
// binary decode.
func (e *Engine) executeRemote(ctx context.Context, rec *statement.Record) error {
	lease, err := rec.Handle.Acquire(ctx)
	if err != nil {
		return err
	}

	// The prepared-statement cache records a deterministic remote name
	// per translated-SQL hash for instrumentation and for a future
	// extended-protocol optimization; the actual round trip below uses
	// the simple protocol so every result value arrives in Postgres's
	// text wire encoding, which §4.3's accessor rules (boolean 't'/'f',
	// hex bytea) depend on. Extended-protocol binary decoding would
	// break that contract, so the cached name is not used to drive a
	// server-side PREPARE here.
	hash := stmtcache.Hash(rec.TranslatedSQL)
	if _, ok := lease.StmtCache().Lookup(hash); !ok {
		lease.StmtCache().Store(hash)
	}

	start := time.Now()
	args := append([]any{pgx.QueryExecModeSimpleProtocol}, rec.BindArgs()...)
	rows, err := lease.Conn().Query(ctx, rec.TranslatedSQL, args...)
	if err != nil {
		return e.classifyRemoteError(rec, lease, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]statement.ColumnMeta, len(fields))
	for i, f := range fields {
		columns[i] = statement.ColumnMeta{Name: f.Name, OID: f.DataTypeOID}
	}

	var resultRows []statement.Row
	for rows.Next() {
		raw := rows.RawValues()
		vals := make([]*string, len(raw))
		for i, rv := range raw {
			if rv == nil {
				continue
			}
			s := string(rv)
			vals[i] = &s
		}
		resultRows = append(resultRows, statement.Row{Values: vals})
	}
	if err := rows.Err(); err != nil {
		return e.classifyRemoteError(rec, lease, err)
	}

	tag := rows.CommandTag()
	rec.SetChanges(tag.RowsAffected())
	rec.LoadResult(columns, resultRows)
	lease.ClearError()
	rec.Handle.ClearError()

	metrics.StepDuration.WithLabelValues("executed").Observe(time.Since(start).Seconds())
	return nil
}

// classifyRemoteError implements §7's remote-failure and
// session-failure handling: record the lease's last error, attempt a
// best-effort ROLLBACK to drain any aborted implicit transaction, and
// mark the slot unhealthy if the failure looks connection-fatal.
func (e *Engine) classifyRemoteError(rec *statement.Record, lease interface {
	Conn() *pgx.Conn
	SetError(error, string)
	ClearError()
	MarkUnhealthy()
}, cause error) error {
	code := ""
	var pgErr *pgconn.PgError
	if pkgerrors.As(cause, &pgErr) {
		code = pgErr.Code
	}

	lease.SetError(cause, code)
	rec.Handle.SetError(cause, code)

	if rb := lease.Conn(); rb != nil {
		if _, rbErr := rb.Exec(context.Background(), "ROLLBACK"); rbErr != nil {
			log.WithError(rbErr).Debug("best-effort rollback after remote failure did not apply")
		}
	}

	if code == "" {
		// No SQLSTATE at all means the connection itself is the problem,
		// not a rejected statement.
		lease.MarkUnhealthy()
		return errs.Wrap(errs.KindSession, cause, "engine-r session failure")
	}
	return errs.Wrap(errs.KindRemote, cause, "engine-r command failure")
}
