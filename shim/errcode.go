package shim

import (
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"

	"github.com/cgnl/plex-postgresql/internal/errs"
)

// codeFor maps an internal errs.Kind onto the Code taxonomy §6/§7 ask
// for: resource pressure reports NOMEM, misuse reports MISUSE, a
// constraint violation passed through from Engine-R reports
// CONSTRAINT, everything else reports a plain ERROR.
func codeFor(err error) Code {
	if err == nil {
		return CodeOK
	}
	switch errs.KindOf(err) {
	case errs.KindResourcePressure:
		return CodeNoMem
	case errs.KindMisuse:
		return CodeMisuse
	case errs.KindSkipped:
		return CodeOK
	}
	if isConstraintViolation(err) {
		return CodeConstraint
	}
	return CodeError
}

// isConstraintViolation reports whether err carries a Postgres
// constraint-violation SQLSTATE (class 23, e.g. unique_violation,
// not_null_violation), the one non-success status §6 says should pass
// through as CONSTRAINT rather than a generic ERROR.
func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if pkgerrors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}
	return false
}
