package translator

import "github.com/cgnl/plex-postgresql/internal/metrics"

// pass is one named, stateless rewrite stage. Passes compose by plain
// string substitution over the full statement and must never recurse:
// each is string-in/string-out with a constant-bounded heap per call.
type pass struct {
	name string
	fn   func(string) string
}

// pipeline is the fixed, ordered list of rewrite passes Translate runs.
// Order matters: idempotency and DDL-type rewrites run before the
// upsert rewrite (which only fires on INSERT-shaped statements and does
// not interact with either); group-by completion runs after quoting so
// a backtick- or dot-single-quoted SELECT column has already become its
// final double-quoted form before the groupable-column check inspects
// it, and after functions so a rewritten `iif(...)` is already in its
// CASE WHEN ... END form when the CASE-expression check excludes it;
// the catalog rewrite runs after quoting for the same reason (a
// bare `sqlite_master` reference must not be mistaken for a
// backtick/dot-quoted identifier); placeholder rewriting happens in
// Translate, after this pipeline, since every other pass needs to see
// the host's original parameter syntax intact.
var pipeline = []pass{
	{"create_idempotency", rewriteCreateIdempotency},
	{"ddl_types", rewriteDDLTypes},
	{"upsert", rewriteUpsert},
	{"keywords", rewriteKeywords},
	{"operators", rewriteOperators},
	{"functions", rewriteFunctions},
	{"quoting", rewriteQuoting},
	{"group_by", rewriteGroupBy},
	{"catalog", rewriteCatalog},
	{"set_dedup", dedupeSetAssignments},
}

// runPipeline applies every pass in order, recording in TranslatorPassTotal
// which ones actually changed the statement.
func runPipeline(sql string) string {
	for _, p := range pipeline {
		next := p.fn(sql)
		if next != sql {
			metrics.TranslatorPassTotal.WithLabelValues(p.name).Inc()
		}
		sql = next
	}
	return sql
}
