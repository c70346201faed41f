package translator

import "strings"

// ConflictRegistry is the static table-to-conflict-columns registry
// spec.md's UPSERT rule requires. It is consulted once, here, for every
// table — including `metadata_item_settings`, which spec.md §9 flags as
// having been special-cased in one source path and handled generically in
// another; this registry is the single place that decision is made.
var ConflictRegistry = map[string][]string{
	"metadata_item_settings": {"guid", "account_id"},
	"metadata_items":         {"id"},
	"tags":                   {"id"},
	"taggings":               {"id"},
	"media_parts":            {"id"},
	"media_streams":          {"id"},
	"accounts":               {"id"},
	"devices":                {"id"},
	"library_sections":       {"id"},
}

// defaultConflictColumns is used when a table has no registry entry: the
// host's own tables overwhelmingly use a single surrogate `id` primary
// key, so that is the safe default rather than failing the rewrite.
var defaultConflictColumns = []string{"id"}

// ConflictColumns returns the conflict-target columns for table, using
// ConflictRegistry when the table is known there, with schema
// qualification and quoting stripped before lookup.
func ConflictColumns(table string) []string {
	key := unqualify(table)
	if cols, ok := ConflictRegistry[key]; ok {
		return cols
	}
	return defaultConflictColumns
}

// unqualify strips a schema prefix (`schema.table`) and any quoting from
// a table reference, returning the bare lowercase table name used as the
// registry key.
func unqualify(table string) string {
	t := strings.Trim(table, `"`)
	if idx := strings.LastIndexByte(t, '.'); idx >= 0 {
		t = t[idx+1:]
	}
	t = strings.Trim(t, `"`)
	return strings.ToLower(t)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.Trim(v, `"`), s) {
			return true
		}
	}
	return false
}
