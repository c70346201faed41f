package translator

import (
	"regexp"
	"strings"
)

var (
	insertOrReplaceIntoRe = regexp.MustCompile(`(?i)^\s*INSERT\s+OR\s+REPLACE\s+INTO\s+`)
	replaceIntoOnlyRe     = regexp.MustCompile(`(?i)^\s*REPLACE\s+INTO\s+`)
	valuesKeywordRe       = regexp.MustCompile(`(?i)^VALUES\s*`)
)

// rewriteUpsert turns `INSERT OR REPLACE INTO T(cols) VALUES(vals)` and the
// equivalent `REPLACE INTO T(cols) VALUES(vals)` form into
// `INSERT INTO T(cols) VALUES(vals) ON CONFLICT(key_cols) DO UPDATE SET
// col = EXCLUDED.col, ...`, consulting ConflictRegistry for key_cols. It
// is a no-op (returns sql unchanged) for any statement shape it cannot
// parse with confidence, per spec.md's "return the original SQL ...
// letting the engine produce the real error" policy.
func rewriteUpsert(sql string) string {
	leading := leadingWhitespace(sql)
	body := sql[len(leading):]

	var rest string
	switch {
	case insertOrReplaceIntoRe.MatchString(body):
		rest = insertOrReplaceIntoRe.ReplaceAllString(body, "")
	case replaceIntoOnlyRe.MatchString(body):
		rest = replaceIntoOnlyRe.ReplaceAllString(body, "")
	default:
		return sql
	}

	table, cols, values, trailing, ok := parseInsertShape(rest)
	if !ok || len(cols) == 0 || len(cols) != len(values) {
		return sql
	}

	keyCols := ConflictColumns(table)

	var setClauses []string
	for _, col := range cols {
		if containsFold(keyCols, col) {
			continue
		}
		setClauses = append(setClauses, upsertSetClause(table, col))
	}

	var b strings.Builder
	b.WriteString(leading)
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString("(")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES(")
	b.WriteString(strings.Join(values, ", "))
	b.WriteString(") ON CONFLICT(")
	b.WriteString(strings.Join(keyCols, ", "))
	b.WriteString(")")
	if len(setClauses) > 0 {
		b.WriteString(" DO UPDATE SET ")
		b.WriteString(strings.Join(setClauses, ", "))
	} else {
		b.WriteString(" DO NOTHING")
	}
	if containsFold(keyCols, "id") {
		b.WriteString(" RETURNING id")
	}
	b.WriteString(trailing)
	return b.String()
}

// upsertSetClause returns the `col = ...` assignment for col within an
// ON CONFLICT DO UPDATE SET list, applying the two per-column special
// cases spec.md names.
func upsertSetClause(table, col string) string {
	bare := strings.ToLower(strings.Trim(col, `"`))
	switch {
	case bare == "updated_at" || bare == "changed_at":
		return col + " = COALESCE(EXCLUDED." + col + ", EXTRACT(EPOCH FROM NOW())::bigint)"
	case strings.Contains(bare, "view_count") || strings.HasSuffix(bare, "_count"):
		return col + " = GREATEST(EXCLUDED." + col + ", " + table + "." + col + ", 0)"
	default:
		return col + " = EXCLUDED." + col
	}
}

// parseInsertShape parses `T(col, col, ...) VALUES(val, val, ...)` (the
// remainder after the leading INSERT-variant keyword has been stripped),
// respecting parenthesis depth and string literals in both lists. trailing
// is whatever text (a closing semicolon, trailing whitespace) followed the
// values list, preserved verbatim in the rewritten statement.
func parseInsertShape(rest string) (table string, cols, values []string, trailing string, ok bool) {
	paren := strings.IndexByte(rest, '(')
	if paren < 0 {
		return "", nil, nil, "", false
	}
	table = strings.TrimSpace(rest[:paren])
	if table == "" {
		return "", nil, nil, "", false
	}

	cols, afterCols, okCols := parseCallArgs(rest, paren)
	if !okCols {
		return "", nil, nil, "", false
	}

	remainder := strings.TrimSpace(rest[afterCols:])
	loc := valuesKeywordRe.FindStringIndex(remainder)
	if loc == nil {
		return "", nil, nil, "", false
	}
	afterKeyword := remainder[loc[1]:]
	valParen := strings.IndexByte(afterKeyword, '(')
	if valParen < 0 {
		return "", nil, nil, "", false
	}
	values, afterValues, okVals := parseCallArgs(afterKeyword, valParen)
	if !okVals {
		return "", nil, nil, "", false
	}
	return table, cols, values, afterKeyword[afterValues:], true
}

func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return s[:i]
}
