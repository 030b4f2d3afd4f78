package eval

import "github.com/rowstore/xeval/evalerr"

// ErrEval, ErrExpr, ErrCodec and ErrUnimplemented re-export the four
// abstract error kinds (spec §7) for callers that only import package eval.
// datum and codec, being lower in the dependency chain, raise the same
// *errors.Kind values directly from package evalerr.
var (
	ErrEval          = evalerr.Eval
	ErrExpr          = evalerr.Expr
	ErrCodec         = evalerr.Codec
	ErrUnimplemented = evalerr.Unimplemented
)
