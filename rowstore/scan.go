package rowstore

import (
	"math/bits"
	"sort"

	"github.com/rowstore/xeval/eval"
	"github.com/rowstore/xeval/expr"
)

// Bitset is a flat, growable bit vector of matching row ids — the
// in-memory stand-in for an index bitmap an embeddable bitmap library
// would have produced. See SPEC_FULL.md §3.4 for why go-pilosa (the
// teacher's bitmap dependency) isn't wired here instead: it is an HTTP
// client to a running Pilosa server, which this offline harness has no
// way to assume.
type Bitset struct {
	words []uint64
}

// Set flips on bit i.
func (bs *Bitset) Set(i int64) {
	word := int(i / 64)
	for len(bs.words) <= word {
		bs.words = append(bs.words, 0)
	}
	bs.words[word] |= 1 << uint(i%64)
}

// Test reports whether bit i is set.
func (bs *Bitset) Test(i int64) bool {
	word := int(i / 64)
	if word < 0 || word >= len(bs.words) {
		return false
	}
	return bs.words[word]&(1<<uint(i%64)) != 0
}

// Count returns the number of set bits.
func (bs *Bitset) Count() int {
	n := 0
	for _, w := range bs.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// ScanMatches evaluates predicate against every row in store, reusing ev
// (and, with it, its decoded-value-list cache) across rows — the exact
// reuse pattern spec.md §3.5 calls out as the cache's entire reason to
// exist. It returns the bitset of row ids for which predicate evaluated to
// a nonzero I64; rows where predicate evaluates to Null or I64(0) are not
// set. An evaluation error on any row aborts the scan and is returned.
func ScanMatches(store *Store, predicate *expr.Node, ev *eval.Evaluator) (*Bitset, error) {
	ids, err := store.RowIDs()
	if err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	matches := &Bitset{}
	for _, id := range ids {
		if err := store.LoadInto(id, ev); err != nil {
			return nil, err
		}
		d, err := ev.Eval(predicate)
		if err != nil {
			return nil, err
		}
		if v, ok := d.Int64(); ok && v != 0 {
			matches.Set(id)
		}
	}
	return matches, nil
}
