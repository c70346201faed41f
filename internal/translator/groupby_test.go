package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// These mirror the original's GROUP BY rewriter test suite: a Plex
// host issues strict-grouping queries that name only a subset of its
// non-aggregate SELECT columns, and Engine-R refuses to run them
// without every such column named.

func TestGroupBy_SimpleMissingColumn(t *testing.T) {
	got := Translate(`SELECT metadata_items.id, metadata_items.title FROM metadata_items GROUP BY metadata_items.id`)
	assert.Contains(t, got.SQL, "GROUP BY metadata_items.id,metadata_items.title")
}

func TestGroupBy_MultipleMissingColumns(t *testing.T) {
	got := Translate(`SELECT metadata_items.id, metadata_items.library_section_id, metadata_items.title FROM metadata_items GROUP BY metadata_items.id`)
	assert.Contains(t, got.SQL, "GROUP BY metadata_items.id,metadata_items.library_section_id,metadata_items.title")
}

func TestGroupBy_CountAggregateExcluded(t *testing.T) {
	got := Translate(`SELECT metadata_items.id, metadata_items.title, COUNT(*) as cnt FROM metadata_items GROUP BY metadata_items.id`)
	assert.Contains(t, got.SQL, "GROUP BY metadata_items.id,metadata_items.title")
}

func TestGroupBy_WithHaving(t *testing.T) {
	got := Translate(`SELECT metadata_items.id, metadata_items.title, COUNT(*) FROM metadata_items GROUP BY metadata_items.id HAVING COUNT(*) > 1`)
	assert.Contains(t, got.SQL, "GROUP BY metadata_items.id,metadata_items.title HAVING")
}

func TestGroupBy_WithOrderBy(t *testing.T) {
	got := Translate(`SELECT metadata_items.id, metadata_items.title FROM metadata_items GROUP BY metadata_items.id ORDER BY metadata_items.title`)
	assert.Contains(t, got.SQL, `GROUP BY metadata_items.id,metadata_items.title ORDER BY`)
}

func TestGroupBy_QuotedColumnName(t *testing.T) {
	got := Translate(`SELECT metadata_items.id, metadata_items."index" FROM metadata_items GROUP BY metadata_items.id`)
	assert.Contains(t, got.SQL, `GROUP BY metadata_items.id,metadata_items."index"`)
}

func TestGroupBy_MultipleAggregatesAlreadyComplete(t *testing.T) {
	got := Translate(`SELECT metadata_items.guid, COUNT(DISTINCT views.id) as cnt, group_concat(views.account_id) as ids FROM metadata_items GROUP BY metadata_items.guid`)
	assert.Contains(t, got.SQL, "GROUP BY metadata_items.guid")
}

func TestGroupBy_RealPlexMetadataItemsQuery(t *testing.T) {
	got := Translate(`select metadata_items.id, metadata_items.library_section_id, metadata_items.title, count(distinct metadata_item_views.id) as globalViewCount from metadata_item_views left join metadata_items on metadata_items.guid=metadata_item_views.guid where metadata_items.metadata_type=$1 group by metadata_items.guid order by globalViewCount desc limit 6`)
	assert.Contains(t, got.SQL, "GROUP BY metadata_items.guid,metadata_items.id,metadata_items.library_section_id,metadata_items.title")
}

func TestGroupBy_NoGroupByUnchanged(t *testing.T) {
	in := `SELECT * FROM metadata_items WHERE id = 1`
	got := Translate(in)
	assert.Equal(t, in, got.SQL)
}

func TestGroupBy_AlreadyCompletePreserved(t *testing.T) {
	got := Translate(`SELECT metadata_items.id, metadata_items.title FROM metadata_items GROUP BY metadata_items.id, metadata_items.title`)
	assert.Contains(t, got.SQL, "GROUP BY metadata_items.id")
}

func TestGroupBy_CaseExpressionExcluded(t *testing.T) {
	got := Translate(`SELECT metadata_items.id, CASE WHEN metadata_items.rating > 5 THEN 'high' ELSE 'low' END as rating_cat FROM metadata_items GROUP BY metadata_items.id`)
	assert.Contains(t, got.SQL, "GROUP BY metadata_items.id")
	assert.NotContains(t, got.SQL, "GROUP BY metadata_items.id,")
}

func TestGroupBy_AliasedColumns(t *testing.T) {
	got := Translate(`SELECT metadata_items.id AS item_id, metadata_items.title AS item_title FROM metadata_items GROUP BY metadata_items.id`)
	assert.Contains(t, got.SQL, "GROUP BY metadata_items.id,metadata_items.title")
}

func TestGroupBy_TableAliasInJoin(t *testing.T) {
	got := Translate(`SELECT m.id, m.title, COUNT(*) FROM metadata_items m JOIN media_items mi ON mi.metadata_item_id = m.id GROUP BY m.id`)
	assert.Contains(t, got.SQL, "GROUP BY m.id,m.title")
}

func TestGroupBy_ComplexPlexQueryWithParents(t *testing.T) {
	got := Translate(`select media_items.id, metadata_items.id, metadata_items.title, parents.title, count(distinct views.id) as cnt from metadata_items left join media_items on media_items.metadata_item_id=metadata_items.id left join metadata_items as parents on parents.id=metadata_items.parent_id left join metadata_item_views as views on views.guid=metadata_items.guid group by metadata_items.guid`)
	assert.Contains(t, got.SQL, "GROUP BY metadata_items.guid,media_items.id,metadata_items.id,metadata_items.title,parents.title")
}

func TestGroupBy_GroupConcatAggregate(t *testing.T) {
	got := Translate(`SELECT metadata_items.id, metadata_items.title, group_concat(tags.tag, ',') as tags FROM metadata_items GROUP BY metadata_items.id`)
	assert.Contains(t, got.SQL, "GROUP BY metadata_items.id,metadata_items.title")
}

func TestGroupBy_SubqueryInSelectExcluded(t *testing.T) {
	got := Translate(`SELECT metadata_items.id, (SELECT COUNT(*) FROM media_items WHERE metadata_item_id = metadata_items.id) as media_count FROM metadata_items GROUP BY metadata_items.id`)
	assert.Contains(t, got.SQL, "GROUP BY metadata_items.id")
	assert.NotContains(t, got.SQL, "GROUP BY metadata_items.id,")
}

func TestGroupBy_NullDropped(t *testing.T) {
	got := Translate(`SELECT COUNT(*) FROM metadata_items GROUP BY NULL`)
	assert.NotContains(t, got.SQL, "GROUP BY")
}

func TestGroupBy_StringConstantDropped(t *testing.T) {
	got := Translate(`SELECT COUNT(*) FROM metadata_items GROUP BY 'x'`)
	assert.NotContains(t, got.SQL, "GROUP BY")
}

func TestGroupBy_OrdinalReferenceNotDropped(t *testing.T) {
	got := Translate(`SELECT metadata_items.id, COUNT(*) FROM metadata_items GROUP BY 1`)
	assert.Contains(t, got.SQL, "GROUP BY 1")
}
