package expr

import (
	"github.com/rowstore/xeval/codec"
	"github.com/rowstore/xeval/datum"
)

// Builder assigns each Node it constructs a NodeID unique within the
// Builder, in the order its methods are called. One Builder should be used
// for one expression tree (or a family of trees whose ValueList nodes must
// stay disjoint — see SPEC_FULL.md §3.1.1); sharing a Builder across
// unrelated trees is what keeps their node ids from colliding.
type Builder struct {
	next uint32
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) node(kind Kind, val []byte, children ...*Node) *Node {
	id := b.next
	b.next++
	return &Node{NodeID: id, Kind: kind, Val: val, Children: children}
}

// NullNode builds a Null literal.
func (b *Builder) NullNode() *Node { return b.node(Null, nil) }

// Int64Node builds a signed integer literal.
func (b *Builder) Int64Node(v int64) *Node {
	return b.node(Int64, codec.EncodeI64(nil, v))
}

// Uint64Node builds an unsigned integer literal.
func (b *Builder) Uint64Node(v uint64) *Node {
	return b.node(Uint64, codec.EncodeU64(nil, v))
}

// StringNode builds a String literal (raw bytes, UTF-8 is validated at
// eval time by whatever operator consumes it).
func (b *Builder) StringNode(s string) *Node {
	return b.node(String, []byte(s))
}

// BytesNode builds a Bytes literal.
func (b *Builder) BytesNode(v []byte) *Node {
	return b.node(Bytes, append([]byte(nil), v...))
}

// ColumnRefNode builds a reference to a row column by id.
func (b *Builder) ColumnRefNode(colID int64) *Node {
	return b.node(ColumnRef, codec.EncodeI64(nil, colID))
}

// ValueListNode builds a ValueList node from values that the caller has
// already sorted ascending by Datum total order with any Null element
// first, per spec §3.4/§6.3. Building does not re-sort; see
// codec.EncodeValueList.
func (b *Builder) ValueListNode(values []datum.Datum) (*Node, error) {
	val, err := codec.EncodeValueList(values)
	if err != nil {
		return nil, err
	}
	return b.node(ValueList, val), nil
}

func (b *Builder) binary(kind Kind, left, right *Node) *Node {
	return b.node(kind, nil, left, right)
}

// LTNode, LENode, EQNode, NENode, GENode, GTNode and NullEQNode build the
// seven binary comparison operators.
func (b *Builder) LTNode(left, right *Node) *Node     { return b.binary(LT, left, right) }
func (b *Builder) LENode(left, right *Node) *Node     { return b.binary(LE, left, right) }
func (b *Builder) EQNode(left, right *Node) *Node     { return b.binary(EQ, left, right) }
func (b *Builder) NENode(left, right *Node) *Node     { return b.binary(NE, left, right) }
func (b *Builder) GENode(left, right *Node) *Node     { return b.binary(GE, left, right) }
func (b *Builder) GTNode(left, right *Node) *Node     { return b.binary(GT, left, right) }
func (b *Builder) NullEQNode(left, right *Node) *Node { return b.binary(NullEQ, left, right) }

// AndNode and OrNode build the Kleene boolean combinators.
func (b *Builder) AndNode(left, right *Node) *Node { return b.binary(And, left, right) }
func (b *Builder) OrNode(left, right *Node) *Node  { return b.binary(Or, left, right) }

// NotNode builds the unary negation operator.
func (b *Builder) NotNode(child *Node) *Node { return b.node(Not, nil, child) }

// LikeNode builds a restricted-pattern LIKE match: target LIKE pattern.
func (b *Builder) LikeNode(target, pattern *Node) *Node { return b.binary(Like, target, pattern) }

// InNode builds a membership test: target IN list. list must be a
// ValueList node (built with ValueListNode); eval rejects anything else.
func (b *Builder) InNode(target, list *Node) *Node { return b.binary(In, target, list) }
