package translator

import (
	"regexp"
	"strings"
)

var (
	autoincrementPK = regexp.MustCompile(`(?i)integer\s+primary\s+key\s+autoincrement`)

	ddlTypeWord = regexp.MustCompile(`(?i)\b(integer|real|blob)\b`)
)

var ddlTypeRewrite = map[string]string{
	"integer": "BIGINT",
	"real":    "DOUBLE PRECISION",
	"blob":    "BYTEA",
}

// rewriteDDLTypes maps Engine-L DDL column type names to their Engine-R
// equivalents: INTEGER -> BIGINT, REAL -> DOUBLE PRECISION, BLOB -> BYTEA,
// TEXT is preserved verbatim, and the `INTEGER PRIMARY KEY AUTOINCREMENT`
// idiom becomes a BIGINT identity-column declaration.
func rewriteDDLTypes(sql string) string {
	sql = replaceRegexOutsideLiterals(sql, autoincrementPK, func(string) string {
		return "BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
	})
	sql = replaceRegexOutsideLiterals(sql, ddlTypeWord, func(match string) string {
		return ddlTypeRewrite[strings.ToLower(match)]
	})
	return sql
}
