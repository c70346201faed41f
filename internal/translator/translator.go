package translator

// Result is the output of Translate: the rewritten SQL, its parameter
// scheme, and an advisory success flag. Per spec.md, a translation
// "failure" never happens in practice — a pass that cannot confidently
// rewrite a construct leaves it untouched so Engine-R can produce the
// real error — but the OK/Err fields are kept so a future pass can
// surface a genuine parse failure without changing the call contract.
type Result struct {
	SQL        string
	ParamCount int
	ParamNames []string
	OK         bool
	Err        string
}

// Translate rewrites one Engine-L SQL statement into Engine-R SQL. It is a
// pure function: safe to call concurrently from any goroutine, and
// idempotent on text that has already passed through it (I1).
func Translate(sql string) Result {
	rewritten := runPipeline(sql)
	params := rewritePlaceholders(rewritten)

	return Result{
		SQL:        params.sql,
		ParamCount: len(params.paramNames),
		ParamNames: params.paramNames,
		OK:         true,
	}
}
