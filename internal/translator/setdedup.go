package translator

import (
	"regexp"
	"strings"
)

var (
	setKeywordRe       = regexp.MustCompile(`(?i)\bSET\b`)
	setAssignmentColRe = regexp.MustCompile(`^\s*("[^"]+"|[A-Za-z_][A-Za-z0-9_]*)\s*=`)
	setClauseEndWordRe = regexp.MustCompile(`(?i)^(WHERE|RETURNING)\b`)
)

// dedupeSetAssignments implements spec.md's duplicate-SET rule: in
// `UPDATE T SET c=a, c=b, ...` (or an `ON CONFLICT DO UPDATE SET` clause
// built by rewriteUpsert), only the rightmost assignment to any given
// column survives.
func dedupeSetAssignments(sql string) string {
	ranges := literalRanges(sql)
	locs := setKeywordRe.FindAllStringIndex(sql, -1)
	for i := len(locs) - 1; i >= 0; i-- {
		loc := locs[i]
		if inLiteral(ranges, loc[0]) || !wordBoundaryBefore(sql, loc[0]) {
			continue
		}
		end := findSetClauseEnd(sql, loc[1])
		clause := sql[loc[1]:end]
		sql = sql[:loc[1]] + dedupeAssignments(clause) + sql[end:]
	}
	return sql
}

// findSetClauseEnd returns the index just past the assignment list that
// starts at pos, stopping at a top-level WHERE/RETURNING keyword or the
// end of the string.
func findSetClauseEnd(sql string, pos int) int {
	depth := 0
	inStr := false
	for i := pos; i < len(sql); i++ {
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
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && wordBoundaryBefore(sql, i) && setClauseEndWordRe.MatchString(sql[i:]):
			return i
		}
	}
	return len(sql)
}

// dedupeAssignments splits a SET clause body on top-level commas, keeps
// only the last assignment for each distinct column, and rejoins the
// survivors in their original relative order. The clause's trailing
// whitespace is kept so the following keyword stays separated.
func dedupeAssignments(clause string) string {
	trail := clause[len(strings.TrimRight(clause, " \t\n\r")):]
	parts := splitTopLevel(clause, ',')
	lastIdx := make(map[string]int, len(parts))
	for i, p := range parts {
		if m := setAssignmentColRe.FindStringSubmatch(p); m != nil {
			lastIdx[normalizeColumn(m[1])] = i
		}
	}
	seen := make(map[string]bool, len(parts))
	var kept []string
	for i, p := range parts {
		m := setAssignmentColRe.FindStringSubmatch(p)
		if m == nil {
			kept = append(kept, p)
			continue
		}
		col := normalizeColumn(m[1])
		if lastIdx[col] != i || seen[col] {
			continue
		}
		seen[col] = true
		kept = append(kept, p)
	}
	return " " + strings.TrimSpace(strings.Join(kept, ",")) + trail
}

func normalizeColumn(s string) string {
	return strings.ToLower(strings.Trim(s, `"`))
}

// splitTopLevel splits s on sep, ignoring occurrences inside parentheses
// or single-quoted string literals.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	inStr := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' && !inStr:
			inStr = true
		case c == '\'' && inStr:
			if i+1 < len(s) && s[i+1] == '\'' {
				i++
				continue
			}
			inStr = false
		case inStr:
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
