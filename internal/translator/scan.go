// Package translator rewrites Engine-L (embedded SQLite) SQL text into
// Engine-R (PostgreSQL-family) SQL text. Every exported function here is a
// pure string transform: no I/O, no shared state, safe to call from any
// goroutine.
package translator

import (
	"regexp"
	"strings"
)

// literalRanges returns the [start,end) byte ranges of every single-quoted
// string literal in sql, honoring the SQL '' escape convention. Passes that
// rewrite tokens must skip any match whose start falls inside one of these
// ranges so that text inside string literals is never touched.
func literalRanges(sql string) [][2]int {
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
		// Peek for an escaped quote ('').
		if i+1 < len(sql) && sql[i+1] == '\'' {
			i++
			continue
		}
		inLiteral = false
		ranges = append(ranges, [2]int{start, i + 1})
	}
	return ranges
}

// inLiteral reports whether byte offset pos falls inside one of ranges.
func inLiteral(ranges [][2]int, pos int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// replaceOutsideLiterals applies fn to every non-overlapping match of old in
// sql that is not inside a string literal, replacing it with the string fn
// returns. old must be a fixed byte sequence; use for single-token rewrites
// where case sensitivity has already been normalized by the caller.
func replaceOutsideLiterals(sql, old string, fn func(match string) string) string {
	if old == "" {
		return sql
	}
	ranges := literalRanges(sql)
	var b strings.Builder
	b.Grow(len(sql))
	i := 0
	for {
		idx := strings.Index(sql[i:], old)
		if idx < 0 {
			b.WriteString(sql[i:])
			break
		}
		pos := i + idx
		if inLiteral(ranges, pos) {
			b.WriteString(sql[i : pos+len(old)])
			i = pos + len(old)
			continue
		}
		b.WriteString(sql[i:pos])
		b.WriteString(fn(old))
		i = pos + len(old)
	}
	return b.String()
}

// isIdentByte reports whether b can appear inside an unquoted SQL
// identifier or keyword.
func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// wordBoundaryBefore reports whether the byte preceding pos in sql (if any)
// does not continue an identifier, i.e. a match starting at pos is not in
// the middle of some other word.
func wordBoundaryBefore(sql string, pos int) bool {
	if pos == 0 {
		return true
	}
	return !isIdentByte(sql[pos-1])
}

// wordBoundaryAfter reports whether the byte following the match ending at
// pos (exclusive) does not continue an identifier.
func wordBoundaryAfter(sql string, pos int) bool {
	if pos >= len(sql) {
		return true
	}
	return !isIdentByte(sql[pos])
}

// replaceRegexOutsideLiterals replaces every match of re in sql that does
// not begin inside a string literal, passing the matched text to repl.
func replaceRegexOutsideLiterals(sql string, re *regexp.Regexp, repl func(match string) string) string {
	ranges := literalRanges(sql)
	locs := re.FindAllStringIndex(sql, -1)
	if locs == nil {
		return sql
	}
	var b strings.Builder
	b.Grow(len(sql))
	i := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start < i || inLiteral(ranges, start) {
			continue
		}
		b.WriteString(sql[i:start])
		b.WriteString(repl(sql[start:end]))
		i = end
	}
	b.WriteString(sql[i:])
	return b.String()
}
