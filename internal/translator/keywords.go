package translator

import (
	"regexp"
	"strings"
)

var (
	beginModeRe    = regexp.MustCompile(`(?i)\bBEGIN\s+(IMMEDIATE|DEFERRED|EXCLUSIVE)\b`)
	insertIgnoreRe = regexp.MustCompile(`(?i)\bINSERT\s+OR\s+IGNORE\s+INTO\b`)
	emptyInRe      = regexp.MustCompile(`\bIN\s*\(\s*\)`)
	collateIcuRe   = regexp.MustCompile(`(?i)\bCOLLATE\s+icu_root\b`)
	indexedByRe    = regexp.MustCompile(`(?i)\bINDEXED\s+BY\s+("[^"]+"|[A-Za-z_][A-Za-z0-9_]*)`)
)

// rewriteKeywords applies the standalone keyword- and clause-level
// rewrites from spec.md's Keywords table that don't require parsing a
// whole statement (upsert rewriting lives in upsert.go, CREATE/ALTER
// idempotency in createidempotency.go; GROUP BY completion/dropping, being a full
// statement rewrite in its own right, lives in groupby.go).
func rewriteKeywords(sql string) string {
	sql = replaceRegexOutsideLiterals(sql, beginModeRe, func(string) string { return "BEGIN" })
	sql = rewriteInsertOrIgnore(sql)
	sql = replaceRegexOutsideLiterals(sql, emptyInRe, func(string) string {
		return "IN (SELECT -1 WHERE FALSE)"
	})
	sql = replaceRegexOutsideLiterals(sql, collateIcuRe, func(string) string { return "" })
	sql = replaceRegexOutsideLiterals(sql, indexedByRe, func(string) string { return "" })
	return sql
}

// rewriteInsertOrIgnore turns `INSERT OR IGNORE INTO ...` into a plain
// INSERT with an appended `ON CONFLICT DO NOTHING`, since Engine-R has no
// direct "ignore the whole statement on any conflict" insert form.
func rewriteInsertOrIgnore(sql string) string {
	if !insertIgnoreRe.MatchString(sql) {
		return sql
	}
	sql = replaceRegexOutsideLiterals(sql, insertIgnoreRe, func(string) string {
		return "INSERT INTO"
	})
	trimmed := strings.TrimRight(sql, " \t\n;")
	suffix := sql[len(trimmed):]
	return trimmed + " ON CONFLICT DO NOTHING" + suffix
}
