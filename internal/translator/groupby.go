package translator

import (
	"regexp"
	"strings"
)

var (
	asAliasRe     = regexp.MustCompile(`(?i)\s+AS\s+("[^"]+"|[A-Za-z_][A-Za-z0-9_]*)\s*$`)
	plainColumnRe = regexp.MustCompile(`^("[^"]+"|[A-Za-z_][A-Za-z0-9_]*)(\.("[^"]+"|[A-Za-z_][A-Za-z0-9_]*))*$`)
	// Deliberately excludes bare positive integers: "GROUP BY 1" is a
	// standard ordinal column reference in both dialects, not a constant,
	// and must keep grouping by whatever SELECT column 1 actually is.
	numericLitRe = regexp.MustCompile(`^(-[0-9]+(\.[0-9]+)?|[0-9]+\.[0-9]+)$`)
)

// rewriteGroupBy is the Go port of the original's
// fix_group_by_strict_complete: Engine-L's GROUP BY is lenient about
// naming every non-aggregate SELECT column, Engine-R's is not. Every
// plain column the SELECT list projects that isn't already in the
// GROUP BY list gets appended to it; a GROUP BY whose items are all
// constants (NULL, a negative or decimal number, a literal string; a
// bare positive integer is an ordinal, not a constant) is dropped
// entirely, since Engine-R rejects grouping by nothing where Engine-L
// tolerated it.
func rewriteGroupBy(sql string) string {
	kwStart, listStart, listEnd, ok := groupByBoundaries(sql)
	if !ok {
		return sql
	}

	var items []string
	for _, raw := range splitTopLevel(sql[listStart:listEnd], ',') {
		raw = strings.TrimSpace(raw)
		if raw != "" {
			items = append(items, raw)
		}
	}

	if allConstant(items) {
		return dropGroupByClause(sql, kwStart, listEnd)
	}
	return completeGroupBy(sql, kwStart, listStart, listEnd, items)
}

// groupByBoundaries locates the top-level GROUP BY clause in sql:
// kwStart is where "GROUP BY" itself begins, and [listStart,listEnd) is
// its column list, up to whichever of HAVING/ORDER BY/LIMIT/UNION, a
// statement terminator, an enclosing subquery's closing paren, or end
// of string comes first. ok is false if sql has no top-level GROUP BY.
func groupByBoundaries(sql string) (kwStart, listStart, listEnd int, ok bool) {
	ranges := literalRanges(sql)
	upper := strings.ToUpper(sql)

	depth := 0
	kwStart = -1
	for i := 0; i+8 <= len(sql); i++ {
		if inLiteral(ranges, i) {
			continue
		}
		switch sql[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && kwStart < 0 && upper[i:i+8] == "GROUP BY" &&
			wordBoundaryBefore(sql, i) && wordBoundaryAfter(sql, i+8) {
			kwStart = i
			break
		}
	}
	if kwStart < 0 {
		return 0, 0, 0, false
	}

	listStart = kwStart + len("GROUP BY")
	for listStart < len(sql) && isSQLSpace(sql[listStart]) {
		listStart++
	}

	listEnd = len(sql)
	depth = 0
scan:
	for i := listStart; i < len(sql); i++ {
		if inLiteral(ranges, i) {
			continue
		}
		switch {
		case sql[i] == '(':
			depth++
		case sql[i] == ')':
			if depth == 0 {
				listEnd = i
				break scan
			}
			depth--
		case sql[i] == ';' && depth == 0:
			listEnd = i
			break scan
		case depth == 0 && matchesKeywordAt(upper, i, "HAVING"):
			listEnd = i
			break scan
		case depth == 0 && matchesKeywordAt(upper, i, "ORDER"):
			listEnd = i
			break scan
		case depth == 0 && matchesKeywordAt(upper, i, "LIMIT"):
			listEnd = i
			break scan
		case depth == 0 && matchesKeywordAt(upper, i, "UNION"):
			listEnd = i
			break scan
		}
	}
	return kwStart, listStart, listEnd, true
}

// selectListBoundaries returns the byte range of the top-level SELECT
// column list: between an optional DISTINCT and the top-level FROM.
func selectListBoundaries(sql string) (start, end int, ok bool) {
	ranges := literalRanges(sql)
	upper := strings.ToUpper(sql)

	i := 0
	for i < len(sql) && isSQLSpace(sql[i]) {
		i++
	}
	if !matchesKeywordAt(upper, i, "SELECT") {
		return 0, 0, false
	}
	i += len("SELECT")
	for i < len(sql) && isSQLSpace(sql[i]) {
		i++
	}
	if matchesKeywordAt(upper, i, "DISTINCT") {
		i += len("DISTINCT")
		for i < len(sql) && isSQLSpace(sql[i]) {
			i++
		}
	}
	start = i

	depth := 0
	for ; i < len(sql); i++ {
		if inLiteral(ranges, i) {
			continue
		}
		switch sql[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && matchesKeywordAt(upper, i, "FROM") {
			return start, i, true
		}
	}
	return 0, 0, false
}

// dropGroupByClause removes "GROUP BY <kwStart,listEnd)" from sql entirely.
func dropGroupByClause(sql string, kwStart, listEnd int) string {
	prefix := strings.TrimRight(sql[:kwStart], " \t\n\r")
	suffix := sql[listEnd:]
	if needsJoiningSpace(sql, listEnd) {
		return prefix + " " + suffix
	}
	return prefix + suffix
}

// completeGroupBy appends every plain, non-aggregate SELECT column not
// already present in the GROUP BY list, in SELECT order. When it makes
// any change it rebuilds the "GROUP BY" keyword itself in canonical
// uppercase, matching the original's output regardless of how the host
// happened to case it.
func completeGroupBy(sql string, kwStart, listStart, listEnd int, existingItems []string) string {
	selStart, selEnd, ok := selectListBoundaries(sql)
	if !ok {
		return sql
	}

	seen := make(map[string]bool, len(existingItems))
	for _, it := range existingItems {
		seen[strings.ToLower(it)] = true
	}

	var additions []string
	for _, raw := range splitTopLevel(sql[selStart:selEnd], ',') {
		col, ok := simpleGroupableColumn(raw)
		if !ok {
			continue
		}
		key := strings.ToLower(col)
		if seen[key] {
			continue
		}
		seen[key] = true
		additions = append(additions, col)
	}
	if len(additions) == 0 {
		return sql
	}

	newList := strings.TrimRight(sql[listStart:listEnd], " \t\n\r")
	for _, col := range additions {
		newList += "," + col
	}

	suffix := sql[listEnd:]
	if needsJoiningSpace(sql, listEnd) {
		return sql[:kwStart] + "GROUP BY " + newList + " " + suffix
	}
	return sql[:kwStart] + "GROUP BY " + newList + suffix
}

// needsJoiningSpace reports whether the clause boundary at pos was a
// keyword (HAVING/ORDER/LIMIT/UNION) rather than a terminator (')'/';'/
// end of string), and therefore needs a space reinserted after trimming.
func needsJoiningSpace(sql string, pos int) bool {
	return pos < len(sql) && sql[pos] != ')' && sql[pos] != ';'
}

// simpleGroupableColumn strips a trailing "AS alias" from raw and
// reports whether what remains is a plain (possibly dotted, possibly
// quoted) column reference that should be added to GROUP BY: not a
// function call, aggregate, CASE expression, subquery, or "*".
func simpleGroupableColumn(raw string) (string, bool) {
	item := strings.TrimSpace(raw)
	if item == "" || item == "*" {
		return "", false
	}
	if loc := asAliasRe.FindStringIndex(item); loc != nil {
		item = strings.TrimSpace(item[:loc[0]])
	}
	if item == "" {
		return "", false
	}
	if strings.Contains(item, "(") {
		return "", false
	}
	upper := strings.ToUpper(item)
	if strings.HasPrefix(upper, "CASE") && (len(item) == 4 || !isIdentByte(item[4])) {
		return "", false
	}
	if !plainColumnRe.MatchString(item) {
		return "", false
	}
	return item, true
}

// isConstantItem reports whether a GROUP BY item is a literal rather
// than a column or expression: NULL, TRUE/FALSE, a numeric literal, or a
// quoted string literal.
func isConstantItem(item string) bool {
	if item == "" {
		return true
	}
	upper := strings.ToUpper(item)
	if upper == "NULL" || upper == "TRUE" || upper == "FALSE" {
		return true
	}
	if numericLitRe.MatchString(item) {
		return true
	}
	return len(item) >= 2 && item[0] == '\'' && item[len(item)-1] == '\''
}

func allConstant(items []string) bool {
	for _, it := range items {
		if !isConstantItem(it) {
			return false
		}
	}
	return true
}

func isSQLSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// matchesKeywordAt reports whether upper[i:] begins with kw (already
// upper-cased) at a word boundary on both sides.
func matchesKeywordAt(upper string, i int, kw string) bool {
	end := i + len(kw)
	if end > len(upper) || upper[i:end] != kw {
		return false
	}
	return wordBoundaryBefore(upper, i) && wordBoundaryAfter(upper, end)
}
