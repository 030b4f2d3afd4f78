package eval

import (
	"fmt"

	"github.com/mitchellh/hashstructure"

	"github.com/rowstore/xeval/codec"
	"github.com/rowstore/xeval/datum"
	"github.com/rowstore/xeval/evalerr"
	"github.com/rowstore/xeval/expr"
)

// evalIn implements membership testing (spec §4.D). The second child must
// be a ValueList; the decoded list is cached for the Evaluator's lifetime
// (see valueListCacheKey), and the binary search below never calls
// datum.Cmp with a Null operand — a leading Null element, guaranteed by
// the producer to sort first, is carved off before searching and handled
// separately as "unknown membership".
func (e *Evaluator) evalIn(node *expr.Node) (datum.Datum, error) {
	if len(node.Children) != 2 {
		return datum.Null, evalerr.Expr.New(fmt.Sprintf("IN needs 2 operands but got %d", len(node.Children)))
	}

	target, err := e.eval(node.Children[0])
	if err != nil {
		return datum.Null, err
	}
	if target.IsNull() {
		return datum.Null, nil
	}

	listNode := node.Children[1]
	if listNode.Kind != expr.ValueList {
		return datum.Null, evalerr.Expr.New("the second child of IN must be a ValueList")
	}

	list, err := e.decodeValueList(listNode)
	if err != nil {
		return datum.Null, err
	}

	searchable := list
	leadingNull := len(list) > 0 && list[0].IsNull()
	if leadingNull {
		searchable = list[1:]
	}

	found, err := binarySearchDatum(searchable, target)
	if err != nil {
		return datum.Null, err
	}
	if found {
		return datum.NewI64(1), nil
	}
	if leadingNull {
		return datum.Null, nil
	}
	return datum.NewI64(0), nil
}

// binarySearchDatum searches a slice sorted ascending by Datum total order
// for target. A comparison error aborts the search immediately and
// propagates to the caller.
func binarySearchDatum(list []datum.Datum, target datum.Datum) (bool, error) {
	lo, hi := 0, len(list)
	for lo < hi {
		mid := (lo + hi) / 2
		c, err := datum.Cmp(list[mid], target)
		if err != nil {
			return false, err
		}
		switch {
		case c == 0:
			return true, nil
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false, nil
}

// decodeValueList returns the Datum slice a ValueList node decodes to,
// decoding and caching it on first reference and returning the cached
// slice on every subsequent call for the same node. The cache may end up
// populated even when the enclosing In evaluation later fails for an
// unrelated reason (e.g. a comparison in the binary search errors) — that
// is fine, decoding
// itself succeeded and spec §4.D explicitly allows it.
func (e *Evaluator) decodeValueList(node *expr.Node) ([]datum.Datum, error) {
	key := valueListCacheKey(node)
	if cached, ok := e.cache[key]; ok {
		return cached, nil
	}

	decoded, err := codec.DecodeValueList(node.Val)
	if err != nil {
		return nil, err
	}

	e.cache[key] = decoded
	return decoded, nil
}

// valueListCacheKey resolves spec §9's open question with a content hash:
// the node's NodeID (unique within the Builder that produced its tree, see
// expr.Builder) plus its raw payload bytes, hashed with hashstructure. This
// survives tree copies and avoids the raw-pointer-derived key the original
// source used, which the spec calls out as unsound across multiple trees.
func valueListCacheKey(node *expr.Node) uint64 {
	key := struct {
		NodeID uint32
		Val    string
	}{node.NodeID, string(node.Val)}

	h, err := hashstructure.Hash(key, nil)
	if err != nil {
		// hashstructure.Hash cannot fail on a plain (uint32, string) pair;
		// fall back to the node id alone rather than panicking.
		return uint64(node.NodeID)
	}
	return h
}
