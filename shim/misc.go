package shim

import (
	"context"
	"strings"

	"github.com/cgnl/plex-postgresql/internal/config"
)

// collationSet is the runtime's set of configured collation names
// create_collation is allowed to register, per Config's
// RedirectedCollation list; anything else is an unsupported-locally
// misuse, since this core does not implement collation-dependent
// comparison (spec's explicit Non-goal).
type collationSet struct {
	names map[string]bool
}

func newCollationSet(cfg *config.Config) collationSet {
	names := make(map[string]bool, len(cfg.RedirectedCollation))
	for _, n := range cfg.RedirectedCollation {
		names[strings.ToLower(n)] = true
	}
	return collationSet{names: names}
}

// CreateCollation implements create_collation{,_v2}: a no-op success
// for a name Config already lists as redirected (Engine-R's own
// collation applies instead), MISUSE for anything else, since there is
// no local tokenizer/collation engine behind this core to register
// against.
func (h *Handle) CreateCollation(name string) Code {
	if h.rt.collations.names[strings.ToLower(name)] {
		return CodeOK
	}
	return CodeMisuse
}

// CreateCollationV2 is identical to CreateCollation; the v2 destructor
// callback Engine-L defines has nothing to call here, since no native
// resource is allocated.
func (h *Handle) CreateCollationV2(name string) Code {
	return h.CreateCollation(name)
}

// Free is a no-op: every buffer this core hands back (column_text,
// get_table rows) is ordinary garbage-collected Go memory, not a
// host-owned allocation the caller must release by hand.
func Free(_ []byte) {}

// Malloc returns a plain, zeroed Go byte slice of size n; like Free,
// this exists only so host code written against the C ABI's
// allocation pair has something to call.
func Malloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	return make([]byte, n)
}

// GetTable implements get_table(): runs sql to completion and
// materializes every row, column names first, the Go analogue of
// Engine-L's flat result/ncol/nrow table. A NULL column value is a nil
// entry in each row.
func (h *Handle) GetTable(ctx context.Context, sql string) (columns []string, rows [][]*string, code Code) {
	stmt, rc := h.Prepare(ctx, sql)
	if rc != CodeOK {
		return nil, nil, rc
	}
	defer stmt.Finalize()

	for {
		rc = stmt.Step(ctx)
		if rc == CodeDone {
			break
		}
		if rc != CodeRow {
			return nil, nil, rc
		}
		if columns == nil {
			n := stmt.ColumnCount(ctx)
			columns = make([]string, n)
			for i := range columns {
				columns[i] = stmt.ColumnName(ctx, i)
			}
		}
		row := make([]*string, len(columns))
		for i := range row {
			buf := stmt.ColumnText(i)
			if buf == nil {
				continue
			}
			text := string(buf)
			row[i] = &text
		}
		rows = append(rows, row)
	}
	if columns == nil {
		n := stmt.ColumnCount(ctx)
		columns = make([]string, n)
		for i := range columns {
			columns[i] = stmt.ColumnName(ctx, i)
		}
	}
	return columns, rows, CodeOK
}
