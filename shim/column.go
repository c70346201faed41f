package shim

import (
	"context"

	"github.com/cgnl/plex-postgresql/internal/accessor"
)

// ColumnCount implements column_count(): triggers metadata-on-demand
// (§4.6) if no step() has run yet, so the column set is known even
// before the caller advances a row.
func (s *Stmt) ColumnCount(ctx context.Context) int {
	s.ensureMetadata(ctx)
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return 0
	}
	return rec.ColumnCount()
}

// ColumnName implements column_name(): same metadata-on-demand trigger
// as ColumnCount.
func (s *Stmt) ColumnName(ctx context.Context, col int) string {
	s.ensureMetadata(ctx)
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return ""
	}
	return rec.ColumnName(col)
}

// ColumnDecltype implements column_decltype(): same metadata-on-demand
// trigger as ColumnCount.
func (s *Stmt) ColumnDecltype(ctx context.Context, col int) string {
	s.ensureMetadata(ctx)
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return ""
	}
	return rec.ColumnDecltype(col)
}

func (s *Stmt) ensureMetadata(ctx context.Context) {
	_ = s.h.rt.engine.EnsureMetadata(ctx, s.id)
}

// ColumnType implements column_type() for the current row.
func (s *Stmt) ColumnType(col int) accessor.TypeCode {
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return accessor.TypeNull
	}
	return rec.ColumnType(col)
}

// ColumnInt implements column_int/column_int64 for the current row.
func (s *Stmt) ColumnInt(col int) int64 {
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return 0
	}
	return rec.ColumnInt(col)
}

// ColumnInt64 implements column_int64.
func (s *Stmt) ColumnInt64(col int) int64 {
	return s.ColumnInt(col)
}

// ColumnDouble implements column_double for the current row.
func (s *Stmt) ColumnDouble(col int) float64 {
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return 0
	}
	return rec.ColumnDouble(col)
}

// ColumnText implements column_text: a pointer stable until the next
// mutating call on this statement (§4.3 rule 4).
func (s *Stmt) ColumnText(col int) []byte {
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return nil
	}
	buf, isNull := rec.ColumnTextPtr(col)
	if isNull {
		return nil
	}
	return buf
}

// ColumnBlob implements column_blob: bytea hex decoded once per row.
func (s *Stmt) ColumnBlob(col int) []byte {
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return nil
	}
	return rec.ColumnBlob(col)
}

// ColumnBytes implements column_bytes: the decoded blob length.
func (s *Stmt) ColumnBytes(col int) int {
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return 0
	}
	return rec.ColumnBytes(col)
}

// ColumnValue implements column_value: a synthetic ValueHandle over the
// current row (§3).
func (s *Stmt) ColumnValue(col int) *accessor.ValueHandle {
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return nil
	}
	return rec.ColumnValue(col)
}

// DataCount implements data_count() (§4.3 rule 8).
func (s *Stmt) DataCount() int {
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return 0
	}
	return rec.DataCount()
}
