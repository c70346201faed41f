package execengine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cgnl/plex-postgresql/internal/accessor"
	"github.com/cgnl/plex-postgresql/internal/statement"
)

func TestExpandedSQL_TextLiteralQuoted(t *testing.T) {
	params := []statement.Param{{Text: "alice", Bound: true}}
	got := substituteParamLiterals(`SELECT * FROM t WHERE name = $1`, params)
	assert.Equal(t, `SELECT * FROM t WHERE name = 'alice'`, got)
}

func TestExpandedSQL_EmbeddedQuoteDoubled(t *testing.T) {
	params := []statement.Param{{Text: "o'brien", Bound: true}}
	got := substituteParamLiterals(`SELECT * FROM t WHERE name = $1`, params)
	assert.Equal(t, `SELECT * FROM t WHERE name = 'o''brien'`, got)
}

func TestExpandedSQL_NullUnquoted(t *testing.T) {
	params := []statement.Param{{IsNull: true, Bound: true}}
	got := substituteParamLiterals(`SELECT * FROM t WHERE name = $1`, params)
	assert.Equal(t, `SELECT * FROM t WHERE name = NULL`, got)
}

func TestExpandedSQL_NumericUnquoted(t *testing.T) {
	params := []statement.Param{{Text: "42", Bound: true}, {Text: "-1.5", Bound: true}}
	got := substituteParamLiterals(`SELECT * FROM t WHERE a = $1 AND b = $2`, params)
	assert.Equal(t, `SELECT * FROM t WHERE a = 42 AND b = -1.5`, got)
}

func TestExpandedSQL_BlobQuotedAsHex(t *testing.T) {
	hex := accessor.EncodeBytea([]byte{0xde, 0xad, 0xbe, 0xef})
	params := []statement.Param{{Text: hex, Bound: true}}
	got := substituteParamLiterals(`INSERT INTO t(data) VALUES ($1)`, params)
	assert.Equal(t, `INSERT INTO t(data) VALUES ('`+hex+`')`, got)
}

func TestExpandedSQL_UnboundPlaceholderUntouched(t *testing.T) {
	params := []statement.Param{{Bound: false}}
	got := substituteParamLiterals(`SELECT * FROM t WHERE id = $1`, params)
	assert.Equal(t, `SELECT * FROM t WHERE id = $1`, got)
}

func TestExpandedSQL_OutOfRangePlaceholderUntouched(t *testing.T) {
	got := substituteParamLiterals(`SELECT * FROM t WHERE id = $1`, nil)
	assert.Equal(t, `SELECT * FROM t WHERE id = $1`, got)
}

func TestExpandedSQL_PlaceholderInsideLiteralUntouched(t *testing.T) {
	params := []statement.Param{{Text: "x", Bound: true}}
	got := substituteParamLiterals(`SELECT '$1 is not a param' FROM t`, params)
	assert.Equal(t, `SELECT '$1 is not a param' FROM t`, got)
}
