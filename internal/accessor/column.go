// Package accessor implements the column and value getter layer (§4.3):
// type-code mapping from Engine-R OIDs, boolean-text coercion, bytea hex
// decoding, and the bounded text-buffer ring that backs the pointer
// stability guarantee the host expects from column_text/column_blob.
package accessor

import "strconv"

// TypeCode is Engine-L's column type taxonomy, the target of the OID
// mapping in rule 3.
type TypeCode int32

const (
	TypeInteger TypeCode = iota
	TypeFloat
	TypeText
	TypeBlob
	TypeNull
)

// Standard PostgreSQL built-in type OIDs relevant to the mapping in
// rule 3. These are wire-protocol constants, not configuration; they do
// not change across server versions.
const (
	oidBool    = 16
	oidBytea   = 17
	oidInt8    = 20
	oidInt2    = 21
	oidInt4    = 23
	oidOID     = 26
	oidFloat4  = 700
	oidFloat8  = 701
	oidNumeric = 1700
)

// TypeCodeForOID maps an Engine-R type OID onto an Engine-L type code,
// per rule 3. A NULL column value always reports TypeNull regardless of
// its declared OID; that check happens in the caller, since OID alone
// cannot express "this particular value is NULL".
func TypeCodeForOID(oid uint32) TypeCode {
	switch oid {
	case oidInt2, oidInt4, oidInt8, oidBool, oidOID:
		return TypeInteger
	case oidFloat4, oidFloat8, oidNumeric:
		return TypeFloat
	case oidBytea:
		return TypeBlob
	default:
		return TypeText
	}
}

// coerceBoolText applies rule 2: Engine-R's text-mode booleans arrive as
// 't'/'f', which must be recognized before falling back to numeric
// parsing.
func coerceBoolText(s string) (asInt int64, asFloat float64, ok bool) {
	switch s {
	case "t":
		return 1, 1.0, true
	case "f":
		return 0, 0.0, true
	default:
		return 0, 0, false
	}
}

// AsInt implements column_int/column_int64 over a raw text value,
// applying the boolean coercion from rule 2 before a numeric parse.
// A value that parses as neither returns 0, matching SQLite's own
// permissive numeric coercion for column getters.
func AsInt(text string, isNull bool) int64 {
	if isNull {
		return 0
	}
	if i, _, ok := coerceBoolText(text); ok {
		return i
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return int64(f)
	}
	return 0
}

// AsDouble implements column_double, with the same boolean-coercion
// priority as AsInt.
func AsDouble(text string, isNull bool) float64 {
	if isNull {
		return 0
	}
	if _, f, ok := coerceBoolText(text); ok {
		return f
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return 0
}

// DecltypeForOID returns the column_decltype text for a known OID, the
// generic Engine-R type name the host would see if it asked Postgres
// directly. Unrecognized OIDs report "text", matching TypeCodeForOID's
// default.
func DecltypeForOID(oid uint32) string {
	switch oid {
	case oidInt2:
		return "smallint"
	case oidInt4:
		return "integer"
	case oidInt8:
		return "bigint"
	case oidBool:
		return "boolean"
	case oidOID:
		return "oid"
	case oidFloat4:
		return "real"
	case oidFloat8:
		return "double precision"
	case oidNumeric:
		return "numeric"
	case oidBytea:
		return "bytea"
	default:
		return "text"
	}
}
