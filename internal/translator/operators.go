package translator

import "regexp"

var globKeyword = regexp.MustCompile(`(?i)\bglob\b`)

// negativeOperand matches a comparison operator immediately followed by a
// negative numeric literal with no separating space, e.g. `!=-5`. Longer
// operators are listed first so the alternation doesn't short-circuit on a
// prefix of a two-byte operator.
var negativeOperand = regexp.MustCompile(`(!=|<>|>=|<=|=|>|<)(-\d)`)

// rewriteOperators applies the operator-level rewrites: GLOB becomes LIKE
// (the host never relies on glob's wildcard semantics differing from
// LIKE's), and comparison operators directly abutting a negative numeric
// literal get their operator/operand spacing restored.
func rewriteOperators(sql string) string {
	sql = replaceRegexOutsideLiterals(sql, globKeyword, func(string) string { return "LIKE" })
	sql = replaceRegexOutsideLiterals(sql, negativeOperand, func(match string) string {
		loc := negativeOperand.FindStringSubmatchIndex(match)
		op := match[loc[2]:loc[3]]
		operand := match[loc[4]:loc[5]]
		return op + " " + operand
	})
	return sql
}
