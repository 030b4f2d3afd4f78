// Package eval implements the row-scoped expression evaluator: a
// recursive, stateful interpreter over expr.Node trees that dispatches on
// operator kind, owns the row's column bindings, and caches decoded
// ValueList literals for the evaluator's lifetime.
package eval

import (
	"fmt"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	uuid "github.com/satori/go.uuid"

	"github.com/rowstore/xeval/codec"
	"github.com/rowstore/xeval/datum"
	"github.com/rowstore/xeval/evalerr"
	"github.com/rowstore/xeval/expr"
)

// Row is the column-id -> Datum binding the caller populates before
// calling Eval. It is treated as read-only by the Evaluator.
type Row map[int64]datum.Datum

// Evaluator evaluates expr.Node trees against a single row binding. One
// Evaluator is owned exclusively by one caller context (typically a
// per-row scan worker, spec §5) and is bound, for its lifetime, to a
// single expression tree or a family of trees whose ValueList nodes carry
// disjoint NodeIDs (SPEC_FULL.md §3.1.1) — the decoded-value-list cache
// below is keyed by NodeID plus payload content, not by anything that
// would let two distinct ValueList nodes from unrelated trees collide
// cheaply, but nothing stops a hostile or accidental NodeID reuse across
// independently-built trees from doing so.
type Evaluator struct {
	row   Row
	cache map[uint64][]datum.Datum

	id     uuid.UUID
	log    *logrus.Entry
	tracer opentracing.Tracer
}

// NewEvaluator returns an Evaluator with an empty row binding and an empty
// decoded-value-list cache.
func NewEvaluator() *Evaluator {
	id, err := uuid.NewV4()
	if err != nil {
		// uuid.NewV4 only fails if the system's random source can't be
		// read; fall back to the zero UUID rather than failing
		// construction over an unusable correlation id.
		id = uuid.UUID{}
	}
	e := &Evaluator{
		row:   make(Row),
		cache: make(map[uint64][]datum.Datum),
		id:    id,
	}
	return e
}

// WithLogger attaches a logrus entry that Eval uses to report failures.
// Logging is optional: a nil-logger Evaluator behaves exactly as one that
// never had WithLogger called.
func (e *Evaluator) WithLogger(log *logrus.Entry) *Evaluator {
	if log != nil {
		log = log.WithField("evaluator_id", e.id.String())
	}
	e.log = log
	return e
}

// WithTracer attaches an opentracing.Tracer. When set, each top-level Eval
// call opens one span named after the root expression's kind; the
// recursive per-node dispatch is not individually traced, keeping the
// evaluator's synchronous, non-suspending execution model (spec §5)
// intact.
func (e *Evaluator) WithTracer(t opentracing.Tracer) *Evaluator {
	e.tracer = t
	return e
}

// ID is this Evaluator's correlation id, used in log fields and trace
// spans so a single evaluator's activity can be followed across both.
func (e *Evaluator) ID() string {
	return e.id.String()
}

// SetColumn populates or replaces one row binding.
func (e *Evaluator) SetColumn(columnID int64, d datum.Datum) {
	e.row[columnID] = d
}

// ResetRow clears every column binding, leaving the decoded-value-list
// cache untouched. Callers that reuse one Evaluator across multiple rows
// (e.g. a scan loop) must call this before populating the next row's
// bindings, or a column absent from the new row will silently keep
// resolving to the previous row's value instead of erroring.
func (e *Evaluator) ResetRow() {
	for col := range e.row {
		delete(e.row, col)
	}
}

// Eval evaluates expr to a Datum. It is the Evaluator's single entry
// point; every recursive step goes back through the unexported eval.
func (e *Evaluator) Eval(node *expr.Node) (datum.Datum, error) {
	if node == nil {
		return datum.Null, evalerr.Expr.New("cannot evaluate a nil expression node")
	}

	var span opentracing.Span
	if e.tracer != nil {
		span = e.tracer.StartSpan(node.Kind.String())
		span.SetTag("evaluator_id", e.id.String())
		defer span.Finish()
	}

	d, err := e.eval(node)

	if err != nil {
		if span != nil {
			span.SetTag("error", true)
		}
		if e.log != nil {
			e.log.WithFields(logrus.Fields{
				"kind":  node.Kind.String(),
				"error": err,
			}).Warn("eval failed")
		}
	}

	return d, err
}

// eval is the recursive dispatcher. Operator handlers evaluate children
// left-first then right and never short-circuit: both operands of And/Or
// are always evaluated, per spec §5.
func (e *Evaluator) eval(node *expr.Node) (datum.Datum, error) {
	switch node.Kind {
	case expr.Null:
		return datum.Null, nil
	case expr.Int64:
		v, err := codec.DecodeI64(node.Val)
		if err != nil {
			return datum.Null, err
		}
		return datum.NewI64(v), nil
	case expr.Uint64:
		v, err := codec.DecodeU64(node.Val)
		if err != nil {
			return datum.Null, err
		}
		return datum.NewU64(v), nil
	case expr.String, expr.Bytes:
		return datum.NewBytes(node.Val), nil
	case expr.ColumnRef:
		return e.evalColumnRef(node)
	case expr.LT:
		return e.evalCompare(node, func(c int) bool { return c < 0 })
	case expr.LE:
		return e.evalCompare(node, func(c int) bool { return c <= 0 })
	case expr.EQ:
		return e.evalCompare(node, func(c int) bool { return c == 0 })
	case expr.NE:
		return e.evalCompare(node, func(c int) bool { return c != 0 })
	case expr.GE:
		return e.evalCompare(node, func(c int) bool { return c >= 0 })
	case expr.GT:
		return e.evalCompare(node, func(c int) bool { return c > 0 })
	case expr.NullEQ:
		return e.evalNullEQ(node)
	case expr.And:
		return e.evalAnd(node)
	case expr.Or:
		return e.evalOr(node)
	case expr.Not:
		return e.evalNot(node)
	case expr.Like:
		return e.evalLike(node)
	case expr.In:
		return e.evalIn(node)
	case expr.Float32, expr.Float64:
		return datum.Null, evalerr.Unimplemented.New(fmt.Sprintf("%s literals are not implemented", node.Kind))
	default:
		// Forward compatibility: an unrecognized kind (including a bare
		// ValueList reached outside of In's second child) evaluates to
		// Null rather than erroring, per spec §4.C/§9.
		return datum.Null, nil
	}
}

func (e *Evaluator) evalColumnRef(node *expr.Node) (datum.Datum, error) {
	colID, err := codec.DecodeI64(node.Val)
	if err != nil {
		return datum.Null, err
	}
	d, ok := e.row[colID]
	if !ok {
		return datum.Null, evalerr.Eval.New(fmt.Sprintf("column %d not found", colID))
	}
	return d, nil
}

// evalTwoChildren evaluates node's two children, left then right,
// unconditionally. Arity mismatches are reported as *errors.Kind Expr.
func (e *Evaluator) evalTwoChildren(node *expr.Node) (datum.Datum, datum.Datum, error) {
	if len(node.Children) != 2 {
		return datum.Datum{}, datum.Datum{}, evalerr.Expr.New(fmt.Sprintf("need 2 operands but got %d", len(node.Children)))
	}
	left, err := e.eval(node.Children[0])
	if err != nil {
		return datum.Datum{}, datum.Datum{}, err
	}
	right, err := e.eval(node.Children[1])
	if err != nil {
		return datum.Datum{}, datum.Datum{}, err
	}
	return left, right, nil
}

// cmpChildren evaluates node's two children and compares them, returning
// (nil, nil) when either side is Null — "ordering unknown" (spec §3.1
// invariant 2) — without ever calling datum.Cmp on a Null operand.
func (e *Evaluator) cmpChildren(node *expr.Node) (*int, error) {
	left, right, err := e.evalTwoChildren(node)
	if err != nil {
		return nil, err
	}
	if left.IsNull() || right.IsNull() {
		return nil, nil
	}
	c, err := datum.Cmp(left, right)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (e *Evaluator) evalCompare(node *expr.Node, pred func(int) bool) (datum.Datum, error) {
	c, err := e.cmpChildren(node)
	if err != nil {
		return datum.Null, err
	}
	if c == nil {
		return datum.Null, nil
	}
	return datum.FromBool(pred(*c)).Datum(), nil
}

// evalNullEQ implements null-safe equality (spec §4.D): Cmp is called only
// when neither side is Null, which is the documented equivalent of the
// original source's "call cmp unconditionally" behavior that the value
// model's Null guard otherwise forbids.
func (e *Evaluator) evalNullEQ(node *expr.Node) (datum.Datum, error) {
	left, right, err := e.evalTwoChildren(node)
	if err != nil {
		return datum.Null, err
	}
	switch {
	case left.IsNull() && right.IsNull():
		return datum.NewI64(1), nil
	case left.IsNull() || right.IsNull():
		return datum.NewI64(0), nil
	}
	c, err := datum.Cmp(left, right)
	if err != nil {
		return datum.Null, err
	}
	return datum.FromBool(c == 0).Datum(), nil
}

func (e *Evaluator) evalTwoChildrenAsTrinary(node *expr.Node) (datum.Trinary, datum.Trinary, error) {
	left, right, err := e.evalTwoChildren(node)
	if err != nil {
		return datum.Unknown, datum.Unknown, err
	}
	leftTri, err := datum.IntoBoolOrUnknown(left)
	if err != nil {
		return datum.Unknown, datum.Unknown, err
	}
	rightTri, err := datum.IntoBoolOrUnknown(right)
	if err != nil {
		return datum.Unknown, datum.Unknown, err
	}
	return leftTri, rightTri, nil
}

// evalAnd implements Kleene conjunction: {T∧T=T, F∧_=F, _∧F=F, otherwise
// Unknown}.
func (e *Evaluator) evalAnd(node *expr.Node) (datum.Datum, error) {
	left, right, err := e.evalTwoChildrenAsTrinary(node)
	if err != nil {
		return datum.Null, err
	}
	switch {
	case left == datum.False || right == datum.False:
		return datum.False.Datum(), nil
	case left == datum.True && right == datum.True:
		return datum.True.Datum(), nil
	default:
		return datum.Unknown.Datum(), nil
	}
}

// evalOr implements Kleene disjunction: {T∨_=T, _∨T=T, F∨F=F, otherwise
// Unknown}.
func (e *Evaluator) evalOr(node *expr.Node) (datum.Datum, error) {
	left, right, err := e.evalTwoChildrenAsTrinary(node)
	if err != nil {
		return datum.Null, err
	}
	switch {
	case left == datum.True || right == datum.True:
		return datum.True.Datum(), nil
	case left == datum.False && right == datum.False:
		return datum.False.Datum(), nil
	default:
		return datum.Unknown.Datum(), nil
	}
}

func (e *Evaluator) evalNot(node *expr.Node) (datum.Datum, error) {
	if len(node.Children) != 1 {
		return datum.Null, evalerr.Expr.New(fmt.Sprintf("need 1 operand but got %d", len(node.Children)))
	}
	d, err := e.eval(node.Children[0])
	if err != nil {
		return datum.Null, err
	}
	if d.IsNull() {
		return datum.Null, nil
	}
	b, err := datum.IntoBool(d)
	if err != nil {
		return datum.Null, err
	}
	return datum.FromBool(!b).Datum(), nil
}
