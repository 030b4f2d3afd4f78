// Package evalerr holds the abstract error taxonomy shared by every layer
// of the evaluator (datum, codec, expr, eval): Eval, Expr, Codec and
// Unimplemented failures, each a *errors.Kind from go-errors.v1 so callers
// can distinguish them with Kind.Is the same way the teacher's auth package
// distinguishes ErrNotAuthorized from ErrNoPermission.
package evalerr

import "gopkg.in/src-d/go-errors.v1"

var (
	// Eval covers semantic failures during a single evaluation: missing
	// column, numeric/string coercion failure, type mismatch in cmp.
	Eval = errors.NewKind("%s")

	// Expr covers structural failures in the expression tree: wrong
	// arity, wrong child kind.
	Expr = errors.NewKind("%s")

	// Codec covers malformed val payloads: short integers, invalid
	// value-list streams, invalid UTF-8 where a string is required.
	Codec = errors.NewKind("%s")

	// Unimplemented covers float literals and operators outside the
	// supported set.
	Unimplemented = errors.NewKind("%s")
)
