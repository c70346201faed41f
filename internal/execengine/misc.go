package execengine

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/cgnl/plex-postgresql/internal/accessor"
	"github.com/cgnl/plex-postgresql/internal/errs"
	"github.com/cgnl/plex-postgresql/internal/statement"
	"github.com/cgnl/plex-postgresql/internal/translator"
)

// EnsureMetadata implements §4.6: if column_count/column_name/
// column_decltype are called before the first step(), the statement is
// executed once to obtain a result set purely for its metadata. The
// retained rows mean the following step() does not re-execute.
func (e *Engine) EnsureMetadata(ctx context.Context, stmtID uint64) error {
	rec, ok := e.Registry.Statement(stmtID)
	if !ok {
		return errs.New(errs.KindMisuse, "unknown statement")
	}
	if rec.Skipped || rec.HasResult() {
		return nil
	}
	if rec.IsNative() {
		return e.executeNative(ctx, rec)
	}
	return e.executeRemote(ctx, rec)
}

// Errmsg implements errmsg/errcode's shadowing rule (§4.4, §7): the
// core's own last-error on the handle takes priority over whatever
// Engine-L's native errmsg would report, since the native engine was
// never actually invoked for a redirected statement.
func (e *Engine) Errmsg(handleID uint64) (msg string, code string) {
	h, ok := e.Registry.Handle(handleID)
	if !ok {
		return "", ""
	}
	err, c := h.LastError()
	if err == nil {
		return "", ""
	}
	return err.Error(), c
}

// ExtendedErrcode returns the same code Errmsg reports, for
// extended_errcode.
func (e *Engine) ExtendedErrcode(handleID uint64) string {
	_, code := e.Errmsg(handleID)
	return code
}

var insertRe = regexp.MustCompile(`(?i)^\s*INSERT\b`)
var returningRe = regexp.MustCompile(`(?i)\bRETURNING\b`)

// Exec implements the Exec-with-no-statement shortcut (§4.4): equivalent
// to prepare+step-until-DONE+finalize, with `RETURNING id` appended to
// a bare INSERT so the last-insert value comes back without a second
// round trip through lastval().
func (e *Engine) Exec(ctx context.Context, handleID uint64, sql string) (changes int64, lastInsertID int64, err error) {
	h, ok := e.Registry.Handle(handleID)
	if !ok {
		return 0, 0, errs.New(errs.KindMisuse, "unknown handle")
	}

	if !h.Redirected {
		changed, ferr := h.NativeSession.Exec(ctx, sql)
		if ferr != nil {
			return 0, 0, errs.Wrap(errs.KindRemote, ferr, "native exec")
		}
		n, ierr := h.NativeSession.LastInsertID(ctx)
		if ierr != nil {
			n = 0
		}
		return changed, n, nil
	}

	if translator.IsSkipPattern(sql) {
		return 0, 0, nil
	}

	result := translator.Translate(sql)
	translated := result.SQL
	appended := false
	if insertRe.MatchString(sql) && !returningRe.MatchString(translated) {
		translated = strings.TrimRight(translated, "; \t\n") + " RETURNING id"
		appended = true
	}

	rec := statement.New(h, sql, translated, result.ParamNames, result.ParamCount)
	if err := e.executeRemote(ctx, rec); err != nil {
		return 0, 0, err
	}

	if appended && rec.Advance() {
		lastInsertID = rec.ColumnInt(0)
	}
	return rec.Changes(), lastInsertID, nil
}

// LastInsertRowID implements last_insert_rowid: `SELECT lastval()` on
// the handle's active lease. No defined sequence value in the session
// reports 0.
func (e *Engine) LastInsertRowID(ctx context.Context, handleID uint64) (int64, error) {
	h, ok := e.Registry.Handle(handleID)
	if !ok {
		return 0, errs.New(errs.KindMisuse, "unknown handle")
	}
	if !h.Redirected {
		return h.NativeSession.LastInsertID(ctx)
	}

	lease, err := h.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	var id int64
	row := lease.Conn().QueryRow(ctx, "SELECT lastval()")
	if scanErr := row.Scan(&id); scanErr != nil {
		// "no sequence value defined in this session" is not a command
		// failure the host needs to see; it means there is nothing to
		// report yet.
		return 0, nil
	}
	return id, nil
}

// Changes implements changes/changes64.
func (e *Engine) Changes(stmtID uint64) (int64, error) {
	rec, ok := e.Registry.Statement(stmtID)
	if !ok {
		return 0, errs.New(errs.KindMisuse, "unknown statement")
	}
	return rec.Changes(), nil
}

// StmtReadonly implements stmt_readonly.
func (e *Engine) StmtReadonly(stmtID uint64) (bool, error) {
	rec, ok := e.Registry.Statement(stmtID)
	if !ok {
		return false, errs.New(errs.KindMisuse, "unknown statement")
	}
	return looksLikeQuery(rec.TranslatedSQL), nil
}

// SQL implements sql(): the original, untranslated statement text.
func (e *Engine) SQL(stmtID uint64) (string, error) {
	rec, ok := e.Registry.Statement(stmtID)
	if !ok {
		return "", errs.New(errs.KindMisuse, "unknown statement")
	}
	return rec.OriginalSQL, nil
}

// ExpandedSQL implements expanded_sql(): the translated statement text
// with every bound $N placeholder substituted by its literal form, the
// way the original's sqlite3_expanded_sql inlines bound values: NULL
// unquoted, a bare numeral unquoted, everything else single-quoted
// (doubling any embedded quote) — a bytea parameter's hex text already
// carries the `\x` form internal/accessor.EncodeBytea produced at bind
// time, so quoting it is all that's needed. An unbound parameter's
// placeholder is left as-is, matching Engine-R's own server-side
// expansion of a value that was never supplied.
func (e *Engine) ExpandedSQL(stmtID uint64) (string, error) {
	rec, ok := e.Registry.Statement(stmtID)
	if !ok {
		return "", errs.New(errs.KindMisuse, "unknown statement")
	}
	return substituteParamLiterals(rec.TranslatedSQL, rec.Params), nil
}

var (
	paramPlaceholderRe = regexp.MustCompile(`\$([0-9]+)`)
	numericLiteralRe   = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
)

// substituteParamLiterals replaces every $N placeholder in sql that
// does not fall inside an existing string literal with params[N-1]'s
// literal text.
func substituteParamLiterals(sql string, params []statement.Param) string {
	locs := paramPlaceholderRe.FindAllStringSubmatchIndex(sql, -1)
	if locs == nil {
		return sql
	}
	ranges := quoteRanges(sql)

	var b strings.Builder
	b.Grow(len(sql))
	i := 0
	for _, loc := range locs {
		start, numStart, numEnd := loc[0], loc[2], loc[3]
		if start < i || inQuoteRange(ranges, start) {
			continue
		}
		n, convErr := strconv.Atoi(sql[numStart:numEnd])
		if convErr != nil || n < 1 || n > len(params) || !params[n-1].Bound {
			continue
		}
		b.WriteString(sql[i:start])
		b.WriteString(paramLiteral(params[n-1]))
		i = loc[1]
	}
	b.WriteString(sql[i:])
	return b.String()
}

// paramLiteral renders one bound parameter as an inline Engine-R
// literal.
func paramLiteral(p statement.Param) string {
	if p.IsNull {
		return "NULL"
	}
	if _, ok := accessor.DecodeBytea(p.Text); ok {
		return "'" + p.Text + "'"
	}
	if numericLiteralRe.MatchString(p.Text) {
		return p.Text
	}
	return "'" + strings.ReplaceAll(p.Text, "'", "''") + "'"
}

// quoteRanges returns the [start,end) byte ranges of single-quoted
// string literals in sql, honoring the SQL '' escape, so a $N that
// happens to appear inside one (never produced by this module's own
// passes, but cheap to guard against) is left untouched.
func quoteRanges(sql string) [][2]int {
	var ranges [][2]int
	inLiteral := false
	start := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] != '\'' {
			continue
		}
		if !inLiteral {
			inLiteral = true
			start = i
			continue
		}
		if i+1 < len(sql) && sql[i+1] == '\'' {
			i++
			continue
		}
		inLiteral = false
		ranges = append(ranges, [2]int{start, i + 1})
	}
	return ranges
}

func inQuoteRange(ranges [][2]int, pos int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}
