package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_CreateTableIdempotent(t *testing.T) {
	in := `CREATE TABLE t(id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT);`
	got := Translate(in)
	require.True(t, got.OK)
	assert.Contains(t, got.SQL, "CREATE TABLE IF NOT EXISTS t(")
	assert.Contains(t, got.SQL, "BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY")
	assert.Contains(t, got.SQL, "name TEXT")
}

func TestTranslate_Upsert(t *testing.T) {
	in := `INSERT OR REPLACE INTO tags(id, tag, tag_type) VALUES(1,'Action',0);`
	got := Translate(in)
	require.True(t, got.OK)
	assert.Contains(t, got.SQL, "INSERT INTO tags(id, tag, tag_type) VALUES(1, 'Action', 0)")
	assert.Contains(t, got.SQL, "ON CONFLICT(id)")
	assert.Contains(t, got.SQL, "tag = EXCLUDED.tag")
	assert.Contains(t, got.SQL, "tag_type = EXCLUDED.tag_type")
	assert.Contains(t, got.SQL, "RETURNING id")
}

func TestTranslate_IfNullNamedParameter(t *testing.T) {
	got := Translate(`SELECT IFNULL(rating, 0) FROM items WHERE id = :id;`)
	require.True(t, got.OK)
	assert.Equal(t, 1, got.ParamCount)
	assert.Equal(t, []string{":id"}, got.ParamNames)
	assert.Contains(t, got.SQL, "SELECT COALESCE(rating, 0) FROM items WHERE id = $1")
}

func TestTranslate_NamedParameterReused(t *testing.T) {
	got := Translate(`SELECT * FROM t WHERE a = :x OR b = :x`)
	require.True(t, got.OK)
	assert.Equal(t, 1, got.ParamCount)
	assert.Contains(t, got.SQL, "a = $1 OR b = $1")
}

func TestTranslate_QuestionMarkPositional(t *testing.T) {
	got := Translate(`SELECT * FROM t WHERE a = ? AND b = ?`)
	require.True(t, got.OK)
	assert.Equal(t, 2, got.ParamCount)
	assert.Contains(t, got.SQL, "a = $1 AND b = $2")
}

func TestTranslate_SkipPragma(t *testing.T) {
	assert.True(t, IsSkipPattern(`PRAGMA journal_mode = WAL;`))
	assert.False(t, IsSkipPattern(`SELECT 1`))
}

func TestTranslate_Idempotent(t *testing.T) {
	in := `CREATE TABLE t(id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT);`
	once := Translate(in)
	twice := Translate(once.SQL)
	assert.Equal(t, once.SQL, twice.SQL)
}

func TestTranslate_GlobToLike(t *testing.T) {
	got := Translate(`SELECT * FROM t WHERE name GLOB 'a*'`)
	assert.Contains(t, got.SQL, "name LIKE 'a*'")
}

func TestTranslate_NegativeOperandSpacing(t *testing.T) {
	got := Translate(`SELECT * FROM t WHERE a !=-5 AND b<>-3`)
	assert.Contains(t, got.SQL, "a != -5")
	assert.Contains(t, got.SQL, "b<> -3")
}

func TestTranslate_InsertOrIgnore(t *testing.T) {
	got := Translate(`INSERT OR IGNORE INTO t(a) VALUES(1);`)
	assert.Contains(t, got.SQL, "INSERT INTO t(a) VALUES(1) ON CONFLICT DO NOTHING;")
}

func TestTranslate_EmptyIn(t *testing.T) {
	got := Translate(`SELECT * FROM t WHERE id IN ()`)
	assert.Contains(t, got.SQL, "IN (SELECT -1 WHERE FALSE)")
}

func TestTranslate_BacktickIdentifier(t *testing.T) {
	got := Translate("SELECT `name` FROM `items`")
	assert.Contains(t, got.SQL, `"name"`)
	assert.Contains(t, got.SQL, `"items"`)
}

func TestTranslate_Iif(t *testing.T) {
	got := Translate(`SELECT iif(a > 0, 'pos', 'neg') FROM t`)
	assert.Contains(t, got.SQL, "CASE WHEN a > 0 THEN 'pos' ELSE 'neg' END")
}

func TestTranslate_StrftimeEpochNow(t *testing.T) {
	got := Translate(`SELECT strftime('%s','now')`)
	assert.Contains(t, got.SQL, "EXTRACT(EPOCH FROM NOW())::bigint")
}

func TestTranslate_StrftimeEpochWithOffset(t *testing.T) {
	got := Translate(`SELECT strftime('%s','now','-3 days')`)
	assert.Contains(t, got.SQL, "EXTRACT(EPOCH FROM NOW() - INTERVAL '3 days')::bigint")
}

func TestTranslate_LastInsertRowid(t *testing.T) {
	got := Translate(`SELECT last_insert_rowid()`)
	assert.Contains(t, got.SQL, "lastval()")
}

func TestTranslate_JSONEach(t *testing.T) {
	got := Translate(`SELECT value FROM json_each(?)`)
	assert.Contains(t, got.SQL, "json_array_elements($1::json)")
}

func TestTranslate_DuplicateSetKeepsRightmost(t *testing.T) {
	got := Translate(`UPDATE t SET c = 1, d = 2, c = 3 WHERE id = 1`)
	assert.Contains(t, got.SQL, "SET d = 2, c = 3 WHERE")
	assert.NotContains(t, got.SQL, "c = 1")
}

func TestTranslate_BeginModeStripped(t *testing.T) {
	got := Translate(`BEGIN IMMEDIATE`)
	assert.Equal(t, "BEGIN", got.SQL)
}

func TestTranslate_CatalogRewrite(t *testing.T) {
	got := Translate(`SELECT name FROM sqlite_master WHERE type='table'`)
	assert.Contains(t, got.SQL, "information_schema.tables")
	assert.Contains(t, got.SQL, "AS sqlite_master")
}

func TestTranslate_StringLiteralUntouched(t *testing.T) {
	got := Translate(`SELECT 'INTEGER REAL BLOB GLOB' AS label`)
	assert.Equal(t, `SELECT 'INTEGER REAL BLOB GLOB' AS label`, got.SQL)
}

func TestConflictColumns_RegistryAndDefault(t *testing.T) {
	assert.Equal(t, []string{"id"}, ConflictColumns("tags"))
	assert.Equal(t, []string{"id"}, ConflictColumns("unknown_table"))
	assert.Equal(t, ConflictRegistry["metadata_item_settings"], ConflictColumns(`"metadata_item_settings"`))
}
