package shim

import (
	"context"

	"github.com/cgnl/plex-postgresql/internal/execengine"
)

// Stmt is the host-visible prepared statement returned by Prepare, the
// Go analogue of Engine-L's opaque `sqlite3_stmt *`.
type Stmt struct {
	id uint64
	h  *Handle
}

// Step implements step(): executes on first call, advances on every
// call after.
func (s *Stmt) Step(ctx context.Context) Code {
	result, err := s.h.rt.engine.Step(ctx, s.id)
	if err != nil {
		return codeFor(err)
	}
	switch result {
	case execengine.StepRow:
		return CodeRow
	default:
		return CodeDone
	}
}

// Reset implements reset(): discards the in-flight result, keeps
// bindings.
func (s *Stmt) Reset() Code {
	return codeFor(s.h.rt.engine.Reset(s.id))
}

// Finalize implements finalize(): removes the statement. Engine-L
// treats a double finalize as a no-op, which the registry already
// gives for free (finalizing an unknown id is a silent delete-miss).
func (s *Stmt) Finalize() Code {
	s.h.rt.engine.Finalize(s.id)
	return CodeOK
}

// ClearBindings implements clear_bindings().
func (s *Stmt) ClearBindings() Code {
	return codeFor(s.h.rt.engine.ClearBindings(s.id))
}

// BindInt implements bind_int (and bind_int64, the same call on this
// 64-bit core).
func (s *Stmt) BindInt(i int, v int64) Code {
	return codeFor(s.h.rt.engine.BindInt64(s.id, i, v))
}

// BindInt64 implements bind_int64.
func (s *Stmt) BindInt64(i int, v int64) Code {
	return codeFor(s.h.rt.engine.BindInt64(s.id, i, v))
}

// BindDouble implements bind_double.
func (s *Stmt) BindDouble(i int, v float64) Code {
	return codeFor(s.h.rt.engine.BindDouble(s.id, i, v))
}

// BindText implements bind_text.
func (s *Stmt) BindText(i int, v string) Code {
	return codeFor(s.h.rt.engine.BindText(s.id, i, v))
}

// BindBlob implements bind_blob.
func (s *Stmt) BindBlob(i int, v []byte) Code {
	return codeFor(s.h.rt.engine.BindBlob(s.id, i, v))
}

// BindNull implements bind_null.
func (s *Stmt) BindNull(i int) Code {
	return codeFor(s.h.rt.engine.BindNull(s.id, i))
}

// BindParameterCount implements bind_parameter_count.
func (s *Stmt) BindParameterCount() int {
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return 0
	}
	return rec.ParamCount()
}

// BindParameterIndex implements bind_parameter_index.
func (s *Stmt) BindParameterIndex(name string) int {
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return 0
	}
	return rec.ParamIndex(name)
}

// BindParameterName implements bind_parameter_name.
func (s *Stmt) BindParameterName(i int) string {
	rec, ok := s.h.rt.engine.Registry.Statement(s.id)
	if !ok {
		return ""
	}
	return rec.ParamNameAt(i)
}

// Changes implements changes/changes64 — this core has no 32-bit
// ceiling, so both entry points return the same int64.
func (s *Stmt) Changes() int64 {
	n, _ := s.h.rt.engine.Changes(s.id)
	return n
}

// Changes64 implements changes64.
func (s *Stmt) Changes64() int64 {
	return s.Changes()
}

// StmtReadonly implements stmt_readonly().
func (s *Stmt) StmtReadonly() bool {
	ro, _ := s.h.rt.engine.StmtReadonly(s.id)
	return ro
}

// SQL implements sql(): the original, untranslated statement text.
func (s *Stmt) SQL() string {
	text, _ := s.h.rt.engine.SQL(s.id)
	return text
}

// ExpandedSQL implements expanded_sql(): the translated statement text
// with bound parameters inlined as Engine-R literals.
func (s *Stmt) ExpandedSQL() string {
	text, _ := s.h.rt.engine.ExpandedSQL(s.id)
	return text
}
