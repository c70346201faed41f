package translator

import (
	"regexp"
	"strings"
)

// rewriteQuoting converts Engine-L backtick-quoted identifiers to
// Engine-R double-quoted identifiers, single-quoted identifiers that
// appear immediately after a `.` (Engine-L tolerates `t.'col'`), and
// single-quoted table/index/view names in DDL (Engine-L tolerates
// `CREATE TABLE 'foo'(...)`, which Engine-R parses as a string literal,
// not an identifier) to double-quoted identifiers. Ordinary string
// literals are left untouched.
func rewriteQuoting(sql string) string {
	sql = rewriteBackticks(sql)
	sql = rewriteDotQuotedIdent(sql)
	sql = rewriteDDLQuotedIdent(sql)
	return sql
}

// rewriteBackticks turns every backtick-delimited span into a
// double-quoted identifier. A backtick inside a single-quoted string
// literal is literal text and is left as it is.
func rewriteBackticks(sql string) string {
	if !strings.ContainsRune(sql, '`') {
		return sql
	}
	ranges := literalRanges(sql)
	var b strings.Builder
	b.Grow(len(sql))
	open := false
	for i := 0; i < len(sql); i++ {
		if sql[i] == '`' && !inLiteral(ranges, i) {
			b.WriteByte('"')
			open = !open
			continue
		}
		b.WriteByte(sql[i])
	}
	return b.String()
}

// rewriteDotQuotedIdent converts `.'ident'` to `."ident"`, the one place
// Engine-L SQL uses single quotes for an identifier rather than a string
// literal. Ordinary string literals are never preceded by a bare `.`
// without whitespace, so this narrow pattern is unambiguous in practice.
func rewriteDotQuotedIdent(sql string) string {
	ranges := literalRanges(sql)
	var b strings.Builder
	b.Grow(len(sql))
	for i := 0; i < len(sql); i++ {
		if sql[i] != '.' || i+1 >= len(sql) || sql[i+1] != '\'' {
			b.WriteByte(sql[i])
			continue
		}
		// Find the matching range for the literal starting at i+1.
		var end int = -1
		for _, r := range ranges {
			if r[0] == i+1 {
				end = r[1]
				break
			}
		}
		if end < 0 {
			b.WriteByte(sql[i])
			continue
		}
		b.WriteByte('.')
		b.WriteByte('"')
		b.WriteString(sql[i+2 : end-1])
		b.WriteByte('"')
		i = end - 1
	}
	return b.String()
}

var (
	ddlCreateTableQuotedRe = regexp.MustCompile(`(?i)(\bCREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?)'([^']*)'`)
	ddlAlterTableQuotedRe  = regexp.MustCompile(`(?i)(\bALTER\s+TABLE\s+)'([^']*)'`)
	ddlIndexOnQuotedRe     = regexp.MustCompile(`(?i)(\bCREATE\s+(?:UNIQUE\s+)?INDEX\s+(?:IF\s+NOT\s+EXISTS\s+)?\S+\s+ON\s+)'([^']*)'`)
	ddlCreateViewQuotedRe  = regexp.MustCompile(`(?i)(\bCREATE\s+(?:TEMP(?:ORARY)?\s+)?VIEW\s+(?:IF\s+NOT\s+EXISTS\s+)?)'([^']*)'`)
)

// rewriteDDLQuotedIdent converts a single-quoted table, index-target, or
// view name immediately following a DDL keyword to a double-quoted
// identifier. Engine-L's permissive grammar accepts a quoted string in
// identifier position here; Engine-R's does not, and would otherwise
// parse the quotes as a (type-mismatched) string literal.
func rewriteDDLQuotedIdent(sql string) string {
	sql = ddlCreateTableQuotedRe.ReplaceAllString(sql, `${1}"${2}"`)
	sql = ddlAlterTableQuotedRe.ReplaceAllString(sql, `${1}"${2}"`)
	sql = ddlIndexOnQuotedRe.ReplaceAllString(sql, `${1}"${2}"`)
	sql = ddlCreateViewQuotedRe.ReplaceAllString(sql, `${1}"${2}"`)
	return sql
}
