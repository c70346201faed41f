package shim

import "context"

// Handle is the host-visible database connection returned by Open,
// the Go analogue of Engine-L's opaque `sqlite3 *`.
type Handle struct {
	id uint64
	rt *Runtime
}

// OpenV2 is identical to Open; Engine-L's v2 entry point only adds
// flags this core does not need, since redirection is decided purely
// from cfg's path patterns.
func (rt *Runtime) OpenV2(ctx context.Context, path string, _ int) (*Handle, Code) {
	return rt.Open(ctx, path)
}

// Close implements close/close_v2: returns the handle's lease (if any)
// to the pool without closing the underlying session, or closes the
// native session for an unredirected handle.
func (h *Handle) Close() Code {
	h.rt.engine.Close(h.id)
	return CodeOK
}

// CloseV2 is identical to Close.
func (h *Handle) CloseV2() Code {
	return h.Close()
}

// Prepare implements prepare/prepare_v2/prepare_v3: the three Engine-L
// variants differ only in flags this core does not consume.
func (h *Handle) Prepare(ctx context.Context, sql string) (*Stmt, Code) {
	id, err := h.rt.engine.Prepare(ctx, h.id, sql)
	if err != nil {
		return nil, codeFor(err)
	}
	return &Stmt{id: id, h: h}, CodeOK
}

// PrepareV2 is identical to Prepare.
func (h *Handle) PrepareV2(ctx context.Context, sql string) (*Stmt, Code) {
	return h.Prepare(ctx, sql)
}

// PrepareV3 is identical to Prepare; Engine-L's v3 prepFlags (e.g.
// SQLITE_PREPARE_PERSISTENT) have no Engine-R analogue since every
// translated statement already round-trips through the simple protocol
// (see internal/execengine).
func (h *Handle) PrepareV3(ctx context.Context, sql string, _ uint32) (*Stmt, Code) {
	return h.Prepare(ctx, sql)
}

// Exec implements exec(): prepare+step-to-DONE+finalize in one call,
// with the RETURNING-id shortcut internal/execengine applies to a bare
// INSERT.
func (h *Handle) Exec(ctx context.Context, sql string) (changes int64, lastInsertID int64, code Code) {
	changes, lastInsertID, err := h.rt.engine.Exec(ctx, h.id, sql)
	return changes, lastInsertID, codeFor(err)
}

// Errmsg implements errmsg(): the most recent failure on this handle.
func (h *Handle) Errmsg() string {
	msg, _ := h.rt.engine.Errmsg(h.id)
	return msg
}

// Errcode implements errcode(): the SQLSTATE-derived code for the most
// recent failure on this handle, or "" if none.
func (h *Handle) Errcode() string {
	_, code := h.rt.engine.Errmsg(h.id)
	return code
}

// ExtendedErrcode implements extended_errcode().
func (h *Handle) ExtendedErrcode() string {
	return h.rt.engine.ExtendedErrcode(h.id)
}

// LastInsertRowID implements last_insert_rowid().
func (h *Handle) LastInsertRowID(ctx context.Context) int64 {
	id, err := h.rt.engine.LastInsertRowID(ctx, h.id)
	if err != nil {
		return 0
	}
	return id
}

// DBHandle implements db_handle(): a Stmt's owning Handle, trivial here
// since Stmt already carries it.
func (s *Stmt) DBHandle() *Handle {
	return s.h
}
