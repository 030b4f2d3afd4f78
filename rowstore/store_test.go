package rowstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rowstore/xeval/datum"
	"github.com/rowstore/xeval/eval"
	"github.com/rowstore/xeval/expr"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutRowAndLoadInto(t *testing.T) {
	require := require.New(t)
	s := openTestStore(t)

	require.NoError(s.PutRow(1, map[int64]datum.Datum{
		1: datum.NewI64(100),
		2: datum.NewBytes([]byte("hello")),
	}))

	ev := eval.NewEvaluator()
	require.NoError(s.LoadInto(1, ev))

	b := expr.NewBuilder()
	got, err := ev.Eval(b.ColumnRefNode(1))
	require.NoError(err)
	require.Equal(datum.NewI64(100), got)

	got, err = ev.Eval(b.ColumnRefNode(2))
	require.NoError(err)
	require.Equal(datum.NewBytes([]byte("hello")), got)
}

func TestLoadIntoResetsStaleColumns(t *testing.T) {
	require := require.New(t)
	s := openTestStore(t)

	require.NoError(s.PutRow(1, map[int64]datum.Datum{
		1: datum.NewI64(1),
		2: datum.NewI64(2),
	}))
	require.NoError(s.PutRow(2, map[int64]datum.Datum{
		1: datum.NewI64(10),
	}))

	ev := eval.NewEvaluator()
	require.NoError(s.LoadInto(1, ev))
	require.NoError(s.LoadInto(2, ev))

	b := expr.NewBuilder()
	_, err := ev.Eval(b.ColumnRefNode(2))
	require.Error(err, "column 2 was only present on row 1 and must not leak into row 2's bindings")
}

func TestLoadIntoMissingRow(t *testing.T) {
	require := require.New(t)
	s := openTestStore(t)

	ev := eval.NewEvaluator()
	err := s.LoadInto(42, ev)
	require.Error(err)
}

func TestRowIDs(t *testing.T) {
	require := require.New(t)
	s := openTestStore(t)

	require.NoError(s.PutRow(3, map[int64]datum.Datum{1: datum.NewI64(1)}))
	require.NoError(s.PutRow(1, map[int64]datum.Datum{1: datum.NewI64(2)}))

	ids, err := s.RowIDs()
	require.NoError(err)
	require.ElementsMatch([]int64{1, 3}, ids)
}

func TestScanMatches(t *testing.T) {
	require := require.New(t)
	s := openTestStore(t)

	for i := int64(1); i <= 5; i++ {
		require.NoError(s.PutRow(i, map[int64]datum.Datum{1: datum.NewI64(i * 10)}))
	}

	b := expr.NewBuilder()
	predicate := b.GTNode(b.ColumnRefNode(1), b.Int64Node(25))

	ev := eval.NewEvaluator()
	matches, err := ScanMatches(s, predicate, ev)
	require.NoError(err)
	require.Equal(3, matches.Count())
	require.True(matches.Test(3))
	require.True(matches.Test(4))
	require.True(matches.Test(5))
	require.False(matches.Test(1))
	require.False(matches.Test(2))
}

func TestBitsetGrows(t *testing.T) {
	require := require.New(t)
	var bs Bitset
	bs.Set(130)
	require.True(bs.Test(130))
	require.False(bs.Test(129))
	require.Equal(1, bs.Count())
}
