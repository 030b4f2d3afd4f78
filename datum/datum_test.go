package datum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCmpIntegers(t *testing.T) {
	require := require.New(t)

	cases := []struct {
		name string
		x, y Datum
		want int
	}{
		{"i64 less", NewI64(1), NewI64(100), -1},
		{"i64 equal", NewI64(5), NewI64(5), 0},
		{"i64 greater", NewI64(100), NewI64(1), 1},
		{"u64 less", NewU64(1), NewU64(100), -1},
		{"negative i64 less than any u64", NewI64(-1), NewU64(0), -1},
		{"nonneg i64 vs u64", NewI64(5), NewU64(10), -1},
		{"u64 vs nonneg i64", NewU64(10), NewI64(5), 1},
	}

	for _, c := range cases {
		got, err := Cmp(c.x, c.y)
		require.NoError(err, c.name)
		require.Equal(c.want, got, c.name)
	}
}

func TestCmpBytes(t *testing.T) {
	require := require.New(t)

	got, err := Cmp(NewBytes([]byte("a")), NewBytes([]byte("b")))
	require.NoError(err)
	require.Equal(-1, got)

	got, err = Cmp(NewBytes([]byte("abc")), NewBytes([]byte("abc")))
	require.NoError(err)
	require.Equal(0, got)
}

func TestCmpBytesCoercedToNumber(t *testing.T) {
	require := require.New(t)

	got, err := Cmp(NewBytes([]byte("100")), NewI64(1))
	require.NoError(err)
	require.Equal(1, got)

	_, err = Cmp(NewBytes([]byte("not-a-number")), NewI64(1))
	require.Error(err)
}

func TestCmpRejectsNullAndFloat(t *testing.T) {
	require := require.New(t)

	_, err := Cmp(Null, NewI64(1))
	require.Error(err)

	_, err = Cmp(NewF64(1.5), NewI64(1))
	require.Error(err)
}

func TestIntoBool(t *testing.T) {
	require := require.New(t)

	b, err := IntoBool(NewI64(0))
	require.NoError(err)
	require.False(b)

	b, err = IntoBool(NewU64(7))
	require.NoError(err)
	require.True(b)

	b, err = IntoBool(NewBytes([]byte("0")))
	require.NoError(err)
	require.False(b)

	b, err = IntoBool(NewBytes([]byte("3.5")))
	require.NoError(err)
	require.True(b)

	_, err = IntoBool(Null)
	require.Error(err)
}

func TestIntoBoolOrUnknown(t *testing.T) {
	require := require.New(t)

	tri, err := IntoBoolOrUnknown(Null)
	require.NoError(err)
	require.Equal(Unknown, tri)

	tri, err = IntoBoolOrUnknown(NewI64(1))
	require.NoError(err)
	require.Equal(True, tri)

	tri, err = IntoBoolOrUnknown(NewI64(0))
	require.NoError(err)
	require.Equal(False, tri)
}

func TestTrinaryDatum(t *testing.T) {
	require := require.New(t)

	require.Equal(NewI64(1), True.Datum())
	require.Equal(NewI64(0), False.Datum())
	require.Equal(Null, Unknown.Datum())
}

func TestIntoString(t *testing.T) {
	require := require.New(t)

	s, err := IntoString(NewBytes([]byte("hello")))
	require.NoError(err)
	require.Equal("hello", s)

	_, err = IntoString(NewBytes([]byte{0xff, 0xfe}))
	require.Error(err)

	_, err = IntoString(NewI64(1))
	require.Error(err)
}

func TestDatumEqualityIsComparable(t *testing.T) {
	require := require.New(t)

	require.True(Null == Datum{})
	require.True(NewI64(1) == NewI64(1))
	require.False(NewI64(1) == NewI64(2))
	require.True(NewBytes([]byte("a")) == NewBytes([]byte("a")))
}
