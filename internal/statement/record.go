// Package statement implements StatementRecord (§3/§4.2): the
// host-visible prepared statement, its parameter vector, its in-flight
// result set, and the row-scoped accessor caches layered on top of
// internal/accessor.
package statement

import (
	"context"
	"sync"

	"github.com/cgnl/plex-postgresql/internal/accessor"
	"github.com/cgnl/plex-postgresql/internal/errs"
	"github.com/cgnl/plex-postgresql/internal/native"
	"github.com/cgnl/plex-postgresql/internal/pool"
)

// noCopy marks Record as must-not-copy, the same discipline the
// teacher's pool role types use for their embedded connections.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// HandleRef is the narrow view a Record needs of its owning logical
// handle: just enough to reach the active lease. Keeping this as an
// interface (rather than importing internal/handle directly) avoids a
// handle<->statement import cycle, since internal/handle owns the
// StatementRecord registry and must import this package, not the
// other way around.
type HandleRef interface {
	Lease() *pool.Lease
	Acquire(ctx context.Context) (*pool.Lease, error)
	SetError(err error, code string)
	ClearError()
}

// ColumnMeta describes one result column as reported by Engine-R.
type ColumnMeta struct {
	Name string
	OID  uint32
}

// Row is one materialized result row; a nil entry is SQL NULL.
type Row struct {
	Values []*string
}

// Param is one bound parameter, always carried in Engine-R's text
// format per the downward interface's text-format parameter binding.
type Param struct {
	Text   string
	IsNull bool
	Bound  bool
}

var (
	sharedTextRing  = accessor.NewTextRing()
	sharedValueRing = accessor.NewValueRing()
)

// Record is the host-visible prepared statement.
type Record struct {
	_  noCopy
	mu sync.Mutex

	Handle        HandleRef
	OriginalSQL   string
	TranslatedSQL string
	ParamNames    []string
	Params        []Param

	// Native, when non-nil, means this statement belongs to an
	// unredirected handle and executes directly against Engine-L's own
	// engine rather than through a pool lease; TranslatedSQL then equals
	// OriginalSQL untouched.
	Native native.NativeSession

	ReadOnly bool
	Skipped  bool // recognized skip-pattern statement; never touches Engine-R

	columns    []ColumnMeta
	rows       []Row
	rowCount   int
	colCount   int
	currentRow int // -1 before first step
	hasResult  bool

	blobCache    map[int][]byte
	blobCacheRow int

	changes      int64
	lastInsertID int64
}

// New builds an unprepared Record with paramCount empty bindings, ready
// to be bound and stepped.
func New(h HandleRef, original, translated string, paramNames []string, paramCount int) *Record {
	return &Record{
		Handle:        h,
		OriginalSQL:   original,
		TranslatedSQL: translated,
		ParamNames:    paramNames,
		Params:        make([]Param, paramCount),
		currentRow:    -1,
		blobCacheRow:  -1,
	}
}

// Bind records the text-format value for the 1-based parameter
// position i, overwriting any previous binding. Out-of-range i is a
// host-misuse error (§7.5).
func (r *Record) Bind(i int, text string, isNull bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 1 || i > len(r.Params) {
		return errs.New(errs.KindMisuse, "bind position out of range")
	}
	r.Params[i-1] = Param{Text: text, IsNull: isNull, Bound: true}
	return nil
}

// BindArgs returns the current parameter vector as driver-ready values,
// nil for NULL or unbound, in 1..N order.
func (r *Record) BindArgs() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	args := make([]any, len(r.Params))
	for i, p := range r.Params {
		if p.IsNull || !p.Bound {
			args[i] = nil
			continue
		}
		args[i] = p.Text
	}
	return args
}

// ClearBindings resets every parameter to unbound-NULL, preserving
// parameter count.
func (r *Record) ClearBindings() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Params {
		r.Params[i] = Param{}
	}
}

// ParamCount returns bind_parameter_count.
func (r *Record) ParamCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Params)
}

// ParamIndex implements bind_parameter_index for a named parameter.
func (r *Record) ParamIndex(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.ParamNames {
		if n == name {
			return i + 1
		}
	}
	return 0
}

// ParamNameAt implements bind_parameter_name for a 1-based index.
func (r *Record) ParamNameAt(i int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 1 || i > len(r.ParamNames) {
		return ""
	}
	return r.ParamNames[i-1]
}

// LoadResult installs a freshly executed result set and rewinds to
// before the first row, invalidating the row-scoped accessor caches.
func (r *Record) LoadResult(columns []ColumnMeta, rows []Row) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.columns = columns
	r.rows = rows
	r.colCount = len(columns)
	r.rowCount = len(rows)
	r.currentRow = -1
	r.hasResult = true
	r.blobCacheRow = -1
	r.blobCache = nil
}

// Advance moves to the next row, returning false once rows are
// exhausted (step() DONE).
func (r *Record) Advance() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.currentRow+1 < r.rowCount {
		r.currentRow++
		return true
	}
	r.currentRow = r.rowCount
	return false
}

// ResetResult discards the in-flight result and rewinds current_row,
// preserving bound parameters (clear_bindings is a separate call).
func (r *Record) ResetResult() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.columns = nil
	r.rows = nil
	r.colCount = 0
	r.rowCount = 0
	r.currentRow = -1
	r.hasResult = false
	r.blobCacheRow = -1
	r.blobCache = nil
}

// HasResult reports whether a result set has been loaded since the
// last ResetResult.
func (r *Record) HasResult() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasResult
}

// SetChanges records the command-tag row count from the most recent
// write.
func (r *Record) SetChanges(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = n
}

// Changes returns the last recorded command-tag row count.
func (r *Record) Changes() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changes
}

// SetLastInsertID records the value returned by the lastval() shortcut.
func (r *Record) SetLastInsertID(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastInsertID = id
}

// LastInsertID returns the value last recorded by SetLastInsertID.
func (r *Record) LastInsertID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastInsertID
}

// IsNative reports whether this statement falls through to Engine-L's
// own engine rather than Engine-R.
func (r *Record) IsNative() bool {
	return r.Native != nil
}
