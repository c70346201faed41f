package translator

import "regexp"

var catalogTableRe = regexp.MustCompile(`(?i)\b(sqlite_master|sqlite_schema)\b`)

// catalogUnionQuery is a parenthesized subquery reproducing the shape of
// Engine-L's internal schema catalog (type, name, tbl_name, rootpage, sql)
// as a union over Engine-R's information_schema and index catalog. It is
// aliased back to the name the host used so `FROM sqlite_master` and
// `... sqlite_master WHERE type='table'` keep working unmodified.
const catalogUnionQuery = `(
  SELECT 'table'::text AS type, table_name AS name, table_name AS tbl_name,
         0::bigint AS rootpage, NULL::text AS sql
  FROM information_schema.tables
  WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
  UNION ALL
  SELECT 'index'::text AS type, indexname AS name, tablename AS tbl_name,
         0::bigint AS rootpage, indexdef AS sql
  FROM pg_indexes
  WHERE schemaname NOT IN ('pg_catalog', 'information_schema')
)`

// rewriteCatalog replaces references to Engine-L's internal schema
// catalog table with a union query over Engine-R's information schema
// and index catalog, keeping the original alias so downstream column
// references in the host's SQL need no further rewriting.
func rewriteCatalog(sql string) string {
	return replaceRegexOutsideLiterals(sql, catalogTableRe, func(match string) string {
		return catalogUnionQuery + " AS " + match
	})
}
