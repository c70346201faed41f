package translator

import "regexp"

var (
	createTableRe = regexp.MustCompile(`(?i)\bCREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?`)
	createIndexRe = regexp.MustCompile(`(?i)\bCREATE\s+(UNIQUE\s+)?INDEX\s+(?:IF\s+NOT\s+EXISTS\s+)?`)
	alterAddRe    = regexp.MustCompile(`(?i)\bALTER\s+TABLE\s+(\S+)\s+ADD\s+(?:COLUMN\s+)?(?:IF\s+NOT\s+EXISTS\s+)?`)
)

// rewriteCreateIdempotency makes CREATE TABLE, CREATE INDEX, and
// ALTER TABLE ... ADD COLUMN statements unconditionally idempotent, since
// the host issues its schema-creation statements on every startup and
// expects Engine-L's "already exists" tolerance.
func rewriteCreateIdempotency(sql string) string {
	sql = replaceRegexOutsideLiterals(sql, createTableRe, func(string) string {
		return "CREATE TABLE IF NOT EXISTS "
	})
	sql = replaceRegexOutsideLiterals(sql, createIndexRe, func(match string) string {
		loc := createIndexRe.FindStringSubmatchIndex(match)
		unique := ""
		if loc[2] >= 0 {
			unique = match[loc[2]:loc[3]]
		}
		return "CREATE " + unique + "INDEX IF NOT EXISTS "
	})
	sql = replaceRegexOutsideLiterals(sql, alterAddRe, func(match string) string {
		loc := alterAddRe.FindStringSubmatchIndex(match)
		table := match[loc[2]:loc[3]]
		return "ALTER TABLE " + table + " ADD COLUMN IF NOT EXISTS "
	})
	return sql
}
