package translator

import (
	"regexp"
	"strings"
)

// call describes one textual function-call occurrence: `name(args...)`
// spanning sql[start:end].
type call struct {
	start, end int
	args       []string
}

// findCalls returns every top-level occurrence of `name(` in sql (outside
// string literals, at a word boundary) together with its parsed,
// comma-split argument list.
func findCalls(sql, name string) []call {
	ranges := literalRanges(sql)
	lower := strings.ToLower(sql)
	lname := strings.ToLower(name)
	var calls []call
	i := 0
	for {
		idx := strings.Index(lower[i:], lname+"(")
		if idx < 0 {
			break
		}
		pos := i + idx
		i = pos + len(lname)
		if inLiteral(ranges, pos) || !wordBoundaryBefore(sql, pos) {
			continue
		}
		args, end, ok := parseCallArgs(sql, pos+len(lname))
		if !ok {
			continue
		}
		calls = append(calls, call{start: pos, end: end, args: args})
		i = end
	}
	return calls
}

// rewriteCalls finds every call to name in sql and replaces each one, in
// reverse source order so that earlier byte offsets stay valid as later
// (higher-offset) matches are rewritten first, with whatever replacement
// fn returns. fn may return "", false to leave a particular call alone
// (e.g. wrong arity).
func rewriteCalls(sql, name string, fn func(c call) (string, bool)) string {
	calls := findCalls(sql, name)
	for i := len(calls) - 1; i >= 0; i-- {
		c := calls[i]
		replacement, ok := fn(c)
		if !ok {
			continue
		}
		sql = sql[:c.start] + replacement + sql[c.end:]
	}
	return sql
}

// parseCallArgs parses a parenthesized, comma-separated argument list
// starting at sql[openParen] == '('. It returns the trimmed argument
// strings, the index just past the matching ')', and whether parsing
// succeeded (false if parens are unbalanced).
func parseCallArgs(sql string, openParen int) (args []string, end int, ok bool) {
	if openParen >= len(sql) || sql[openParen] != '(' {
		return nil, 0, false
	}
	depth := 0
	argStart := openParen + 1
	inStr := false
	for i := openParen; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'' && !inStr:
			inStr = true
		case c == '\'' && inStr:
			if i+1 < len(sql) && sql[i+1] == '\'' {
				i++
				continue
			}
			inStr = false
		case inStr:
			// inside a literal, ignore structural characters
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				last := strings.TrimSpace(sql[argStart:i])
				if last != "" || len(args) > 0 {
					args = append(args, last)
				}
				return args, i + 1, true
			}
		case c == ',' && depth == 1:
			args = append(args, strings.TrimSpace(sql[argStart:i]))
			argStart = i + 1
		}
	}
	return nil, 0, false
}

var nameSwaps = map[string]string{
	"ifnull": "COALESCE",
	"substr": "SUBSTRING",
}

var timeModifierRe = regexp.MustCompile(`(?i)^\s*([+-])\s*(\d+)\s+(seconds?|minutes?|hours?|days?|months?|years?)\s*$`)

// rewriteFunctions rewrites Engine-L scalar/table-valued functions to
// their Engine-R equivalents, per spec.md's function-rewrite table.
func rewriteFunctions(sql string) string {
	sql = rewriteNameSwaps(sql)
	sql = rewriteTypeof(sql)
	sql = rewriteIif(sql)
	sql = rewriteStrftimeEpoch(sql)
	sql = rewriteUnixepoch(sql)
	sql = rewriteLastInsertRowid(sql)
	sql = rewriteJSONEach(sql)
	return sql
}

func rewriteNameSwaps(sql string) string {
	for from, to := range nameSwaps {
		sql = rewriteCalls(sql, from, func(c call) (string, bool) {
			return to + "(" + strings.Join(c.args, ", ") + ")", true
		})
	}
	return sql
}

// rewriteTypeof turns typeof(x) into pg_typeof(x)::text. The caller sees
// Engine-R's own type name ("bigint", "double precision", "text", ...);
// neither this pass nor the accessor layer remaps it to Engine-L's
// type names.
func rewriteTypeof(sql string) string {
	return rewriteCalls(sql, "typeof", func(c call) (string, bool) {
		return "pg_typeof(" + strings.Join(c.args, ", ") + ")::text", true
	})
}

// rewriteIif turns iif(c, t, f) into CASE WHEN c THEN t ELSE f END.
func rewriteIif(sql string) string {
	return rewriteCalls(sql, "iif", func(c call) (string, bool) {
		if len(c.args) != 3 {
			return "", false
		}
		return "CASE WHEN " + c.args[0] + " THEN " + c.args[1] + " ELSE " + c.args[2] + " END", true
	})
}

// translateTimeArg turns an Engine-L strftime/unixepoch modifier argument
// into the Engine-R expression fragment to append after the base
// timestamp expression, e.g. "'-3 days'" -> " - INTERVAL '3 days'".
func translateTimeArg(base string, args []string) string {
	unquotedBase := strings.Trim(strings.TrimSpace(base), "'")
	expr := base
	if strings.EqualFold(unquotedBase, "now") {
		expr = "NOW()"
	}
	for _, a := range args {
		trimmed := strings.TrimSpace(a)
		unquoted := strings.Trim(trimmed, "'")
		if m := timeModifierRe.FindStringSubmatch(unquoted); m != nil {
			sign, n, unit := m[1], m[2], m[3]
			op := "+"
			if sign == "-" {
				op = "-"
			}
			expr = expr + " " + op + " INTERVAL '" + n + " " + unit + "'"
		}
	}
	return expr
}

// rewriteStrftimeEpoch turns strftime('%s', expr, modifiers...) into
// EXTRACT(EPOCH FROM expr-with-modifiers)::bigint. Other strftime format
// strings have no direct Engine-R equivalent and are left untouched; the
// host only ever uses the '%s' (unix epoch) form.
func rewriteStrftimeEpoch(sql string) string {
	return rewriteCalls(sql, "strftime", func(c call) (string, bool) {
		if len(c.args) < 2 {
			return "", false
		}
		format := strings.Trim(strings.TrimSpace(c.args[0]), "'")
		if format != "%s" {
			return "", false
		}
		expr := translateTimeArg(c.args[1], c.args[2:])
		return "EXTRACT(EPOCH FROM " + expr + ")::bigint", true
	})
}

// rewriteUnixepoch turns unixepoch(expr, modifiers...) into the same
// EXTRACT(EPOCH FROM ...)::bigint shape as strftime('%s', ...).
func rewriteUnixepoch(sql string) string {
	return rewriteCalls(sql, "unixepoch", func(c call) (string, bool) {
		if len(c.args) == 0 {
			return "", false
		}
		expr := translateTimeArg(c.args[0], c.args[1:])
		return "EXTRACT(EPOCH FROM " + expr + ")::bigint", true
	})
}

// rewriteLastInsertRowid turns last_insert_rowid() into lastval().
func rewriteLastInsertRowid(sql string) string {
	return rewriteCalls(sql, "last_insert_rowid", func(call) (string, bool) {
		return "lastval()", true
	})
}

// rewriteJSONEach turns json_each(x), used as a table-valued function in a
// FROM clause, into json_array_elements(x::json).
func rewriteJSONEach(sql string) string {
	return rewriteCalls(sql, "json_each", func(c call) (string, bool) {
		if len(c.args) != 1 {
			return "", false
		}
		return "json_array_elements(" + c.args[0] + "::json)", true
	})
}
