package translator

import "regexp"

// skipPatterns are statement shapes with no Engine-R equivalent: local
// pragmas, VFS-level operations, VACUUM, ATTACH/DETACH, savepoints, and
// virtual-table/FTS declarations. The statement lifecycle engine
// recognizes these and succeeds trivially without reaching Engine-R.
var skipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*PRAGMA\b`),
	regexp.MustCompile(`(?i)^\s*VACUUM\b`),
	regexp.MustCompile(`(?i)^\s*ATTACH\s+DATABASE\b`),
	regexp.MustCompile(`(?i)^\s*DETACH\s+DATABASE\b`),
	regexp.MustCompile(`(?i)^\s*SAVEPOINT\b`),
	regexp.MustCompile(`(?i)^\s*RELEASE\s+(SAVEPOINT\s+)?\S+`),
	regexp.MustCompile(`(?i)^\s*ROLLBACK\s+TO\b`),
	regexp.MustCompile(`(?i)^\s*CREATE\s+VIRTUAL\s+TABLE\b`),
	regexp.MustCompile(`(?i)^\s*ANALYZE\b`),
	regexp.MustCompile(`(?i)^\s*REINDEX\b`),
}

// IsSkipPattern reports whether sql matches one of the skip patterns:
// statements the core silently treats as successful without ever
// translating or executing them against Engine-R.
func IsSkipPattern(sql string) bool {
	for _, re := range skipPatterns {
		if re.MatchString(sql) {
			return true
		}
	}
	return false
}
