package statement

import "github.com/cgnl/plex-postgresql/internal/accessor"

// columnTextLocked implements rule 1: out-of-range (row, col) reports
// NULL rather than erroring, and must be called with mu held.
func (r *Record) columnTextLocked(row, col int) (text string, isNull bool) {
	if row < 0 || row >= r.rowCount || col < 0 || col >= r.colCount {
		return "", true
	}
	v := r.rows[row].Values[col]
	if v == nil {
		return "", true
	}
	return *v, false
}

// ColumnText implements accessor.ResultSource, used both directly by
// column_text and indirectly via a ValueHandle issued against an
// arbitrary captured row.
func (r *Record) ColumnText(row, col int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.columnTextLocked(row, col)
}

// ColumnOID implements accessor.ResultSource.
func (r *Record) ColumnOID(col int) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if col < 0 || col >= len(r.columns) {
		return 0
	}
	return r.columns[col].OID
}

// ColumnCount returns column_count, executing no I/O itself; the
// metadata-on-demand path (§4.6) is the execution engine's
// responsibility, invoked before this is called when no result is
// loaded yet.
func (r *Record) ColumnCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.colCount
}

// ColumnName implements column_name.
func (r *Record) ColumnName(col int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if col < 0 || col >= len(r.columns) {
		return ""
	}
	return r.columns[col].Name
}

// ColumnDecltype implements column_decltype.
func (r *Record) ColumnDecltype(col int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if col < 0 || col >= len(r.columns) {
		return ""
	}
	return accessor.DecltypeForOID(r.columns[col].OID)
}

// ColumnType implements column_type for the current row.
func (r *Record) ColumnType(col int) accessor.TypeCode {
	r.mu.Lock()
	_, isNull := r.columnTextLocked(r.currentRow, col)
	var oid uint32
	if col >= 0 && col < len(r.columns) {
		oid = r.columns[col].OID
	}
	r.mu.Unlock()
	if isNull {
		return accessor.TypeNull
	}
	return accessor.TypeCodeForOID(oid)
}

// ColumnInt implements column_int/column_int64 for the current row.
func (r *Record) ColumnInt(col int) int64 {
	r.mu.Lock()
	text, isNull := r.columnTextLocked(r.currentRow, col)
	r.mu.Unlock()
	return accessor.AsInt(text, isNull)
}

// ColumnDouble implements column_double for the current row.
func (r *Record) ColumnDouble(col int) float64 {
	r.mu.Lock()
	text, isNull := r.columnTextLocked(r.currentRow, col)
	r.mu.Unlock()
	return accessor.AsDouble(text, isNull)
}

// ColumnTextPtr implements column_text: a pointer stable until the next
// mutating call on this statement (rule 4), backed by the shared text
// ring.
func (r *Record) ColumnTextPtr(col int) (buf []byte, isNull bool) {
	r.mu.Lock()
	text, isNull := r.columnTextLocked(r.currentRow, col)
	r.mu.Unlock()
	if isNull {
		return nil, true
	}
	return sharedTextRing.Put(text), false
}

// ColumnBlob implements column_blob: bytea hex decoded once per row
// into a per-column cache (rule 5).
func (r *Record) ColumnBlob(col int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blobCacheRow != r.currentRow {
		r.blobCache = make(map[int][]byte)
		r.blobCacheRow = r.currentRow
	}
	if b, ok := r.blobCache[col]; ok {
		return b
	}
	text, isNull := r.columnTextLocked(r.currentRow, col)
	var decoded []byte
	if !isNull {
		if d, ok := accessor.DecodeBytea(text); ok {
			decoded = d
		}
	}
	r.blobCache[col] = decoded
	return decoded
}

// ColumnBytes implements column_bytes: the decoded blob length, not the
// hex-text length.
func (r *Record) ColumnBytes(col int) int {
	return len(r.ColumnBlob(col))
}

// ColumnValue implements column_value: a synthetic handle over the
// current row, from the shared process-wide value ring (§3).
func (r *Record) ColumnValue(col int) *accessor.ValueHandle {
	r.mu.Lock()
	row := r.currentRow
	r.mu.Unlock()
	return sharedValueRing.Issue(r, row, col)
}

// DataCount implements data_count (rule 8).
func (r *Record) DataCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasResult && r.currentRow >= 0 && r.currentRow < r.rowCount {
		return r.colCount
	}
	return 0
}

// CurrentRow returns the 0-based row index, or -1 before the first
// step.
func (r *Record) CurrentRow() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentRow
}

// RowCount returns the number of rows in the loaded result set.
func (r *Record) RowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rowCount
}
