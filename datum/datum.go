// Package datum implements the evaluator's value model: a tagged scalar
// with a defined total order and SQL null semantics. It is the bottom of
// the dependency chain described by the evaluator's design — codec, expr
// and eval all build on it.
package datum

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/rowstore/xeval/evalerr"
)

// Kind tags the variant held by a Datum.
type Kind uint8

const (
	// KindNull is the absence of a value.
	KindNull Kind = iota
	// KindI64 is a signed 64-bit integer.
	KindI64
	// KindU64 is an unsigned 64-bit integer.
	KindU64
	// KindBytes is an ordered byte sequence; it also acts as the string type.
	KindBytes
	// KindF32 is carried in the value model but rejected by every operator.
	KindF32
	// KindF64 is carried in the value model but rejected by every operator.
	KindF64
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindI64:
		return "I64"
	case KindU64:
		return "U64"
	case KindBytes:
		return "Bytes"
	case KindF32:
		return "F32"
	case KindF64:
		return "F64"
	default:
		return "Unknown"
	}
}

// Datum is the evaluator's only runtime value type. The zero Datum is Null.
// Bytes payloads are stored as a string so Datum stays comparable with ==,
// which Equal relies on.
type Datum struct {
	kind Kind
	i    int64
	u    uint64
	f32  float32
	f64  float64
	s    string
}

// Null is the canonical absence-of-a-value Datum.
var Null = Datum{kind: KindNull}

// NewI64 wraps a signed 64-bit integer.
func NewI64(v int64) Datum { return Datum{kind: KindI64, i: v} }

// NewU64 wraps an unsigned 64-bit integer.
func NewU64(v uint64) Datum { return Datum{kind: KindU64, u: v} }

// NewBytes wraps a byte sequence.
func NewBytes(b []byte) Datum { return Datum{kind: KindBytes, s: string(b)} }

// NewF32 wraps a float32 literal. No operator accepts it; it exists so the
// value model can carry float literals through without losing them.
func NewF32(v float32) Datum { return Datum{kind: KindF32, f32: v} }

// NewF64 wraps a float64 literal, for the same reason as NewF32.
func NewF64(v float64) Datum { return Datum{kind: KindF64, f64: v} }

// Kind reports the variant held by d.
func (d Datum) Kind() Kind { return d.kind }

// IsNull reports whether d is the Null variant.
func (d Datum) IsNull() bool { return d.kind == KindNull }

// Int64 returns d's value and true if d is KindI64.
func (d Datum) Int64() (int64, bool) { return d.i, d.kind == KindI64 }

// Uint64 returns d's value and true if d is KindU64.
func (d Datum) Uint64() (uint64, bool) { return d.u, d.kind == KindU64 }

// BytesValue returns d's payload and true if d is KindBytes.
func (d Datum) BytesValue() ([]byte, bool) {
	if d.kind != KindBytes {
		return nil, false
	}
	return []byte(d.s), true
}

// Float32Value returns d's payload and true if d is KindF32.
func (d Datum) Float32Value() (float32, bool) { return d.f32, d.kind == KindF32 }

// Float64Value returns d's payload and true if d is KindF64.
func (d Datum) Float64Value() (float64, bool) { return d.f64, d.kind == KindF64 }

// String renders d for logging and error messages. It is not used by any
// operator semantics.
func (d Datum) String() string {
	switch d.kind {
	case KindNull:
		return "NULL"
	case KindI64:
		return fmt.Sprintf("I64(%d)", d.i)
	case KindU64:
		return fmt.Sprintf("U64(%d)", d.u)
	case KindBytes:
		return fmt.Sprintf("Bytes(%q)", d.s)
	case KindF32:
		return fmt.Sprintf("F32(%v)", d.f32)
	case KindF64:
		return fmt.Sprintf("F64(%v)", d.f64)
	default:
		return "?"
	}
}

// Trinary is the evaluator's three-valued logic state: Unknown, True or
// False. Boolean coercion (IntoBool) is strictly two-valued and must never
// be called on a Null datum — the "unknown" state is carried separately, as
// a Trinary, at operator boundaries.
type Trinary int

const (
	// Unknown means the operand was Null; SQL's "unknown" truth value.
	Unknown Trinary = iota
	// True means the operand coerced to boolean true.
	True
	// False means the operand coerced to boolean false.
	False
)

// FromBool lifts a plain bool into the two known Trinary states.
func FromBool(b bool) Trinary {
	if b {
		return True
	}
	return False
}

// Datum renders t back to the I64(0)/I64(1)/Null scalar the evaluator's
// operators return.
func (t Trinary) Datum() Datum {
	switch t {
	case True:
		return NewI64(1)
	case False:
		return NewI64(0)
	default:
		return Null
	}
}

// Cmp's result is a three-way integer/lexicographic comparison: -1, 0, 1.

// Cmp defines the total order over non-null Datums (spec §4.A). Integers of
// either signedness compare as mathematical integers; Bytes compare
// lexicographically by unsigned byte value; a Bytes compared against an
// integer is coerced through a decimal parse first. Float operands are
// outside the evaluator's scope and always error. Callers MUST NOT invoke
// Cmp with a Null operand — the "ordering unknown" case is the caller's
// responsibility to detect and handle before calling Cmp.
func Cmp(x, y Datum) (int, error) {
	if x.kind == KindNull || y.kind == KindNull {
		return 0, evalerr.Eval.New("cmp called with a Null operand")
	}
	if x.kind == KindF32 || x.kind == KindF64 || y.kind == KindF32 || y.kind == KindF64 {
		return 0, evalerr.Unimplemented.New("comparison of floating point datums is not implemented")
	}

	switch x.kind {
	case KindI64:
		switch y.kind {
		case KindI64:
			return cmpInt64(x.i, y.i), nil
		case KindU64:
			return cmpI64U64(x.i, y.u), nil
		case KindBytes:
			yi, err := bytesToInt64(y.s)
			if err != nil {
				return 0, err
			}
			return cmpInt64(x.i, yi), nil
		}
	case KindU64:
		switch y.kind {
		case KindI64:
			return -cmpI64U64(y.i, x.u), nil
		case KindU64:
			return cmpUint64(x.u, y.u), nil
		case KindBytes:
			yu, err := bytesToUint64(y.s)
			if err != nil {
				return 0, err
			}
			return cmpUint64(x.u, yu), nil
		}
	case KindBytes:
		switch y.kind {
		case KindBytes:
			return cmpBytes(x.s, y.s), nil
		case KindI64:
			xi, err := bytesToInt64(x.s)
			if err != nil {
				return 0, err
			}
			return cmpInt64(xi, y.i), nil
		case KindU64:
			xu, err := bytesToUint64(x.s)
			if err != nil {
				return 0, err
			}
			return cmpUint64(xu, y.u), nil
		}
	}

	return 0, evalerr.Eval.New(fmt.Sprintf("cannot compare %s with %s", x.kind, y.kind))
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// cmpI64U64 compares a signed value against an unsigned one. A negative i64
// is always less than any u64; otherwise both sides fit in uint64 and are
// compared numerically.
func cmpI64U64(a int64, b uint64) int {
	if a < 0 {
		return -1
	}
	return cmpUint64(uint64(a), b)
}

func cmpBytes(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func bytesToInt64(s string) (int64, error) {
	v, err := cast.ToInt64E(s)
	if err != nil {
		return 0, evalerr.Eval.New(fmt.Sprintf("cannot parse %q as an integer: %s", s, err))
	}
	return v, nil
}

func bytesToUint64(s string) (uint64, error) {
	v, err := cast.ToUint64E(s)
	if err != nil {
		return 0, evalerr.Eval.New(fmt.Sprintf("cannot parse %q as an unsigned integer: %s", s, err))
	}
	return v, nil
}

// IntoBool implements spec §4.A's boolean coercion. It must never be called
// with a Null datum; use IntoBoolOrUnknown at operator boundaries instead.
func IntoBool(d Datum) (bool, error) {
	switch d.kind {
	case KindI64:
		return d.i != 0, nil
	case KindU64:
		return d.u != 0, nil
	case KindBytes:
		n, err := cast.ToFloat64E(d.s)
		if err != nil {
			return false, evalerr.Eval.New(fmt.Sprintf("cannot parse %q as a number: %s", d.s, err))
		}
		return n != 0, nil
	case KindNull:
		return false, evalerr.Eval.New("IntoBool called with a Null operand")
	default:
		return false, evalerr.Unimplemented.New(fmt.Sprintf("boolean coercion of %s is not implemented", d.kind))
	}
}

// IntoBoolOrUnknown is the null-safe wrapper operator handlers use: Null
// becomes Unknown, everything else is forwarded through IntoBool.
func IntoBoolOrUnknown(d Datum) (Trinary, error) {
	if d.kind == KindNull {
		return Unknown, nil
	}
	b, err := IntoBool(d)
	if err != nil {
		return Unknown, err
	}
	return FromBool(b), nil
}

// IntoString returns a UTF-8 string view of a Bytes datum. It is used only
// by LIKE.
func IntoString(d Datum) (string, error) {
	bs, ok := d.BytesValue()
	if !ok {
		return "", evalerr.Eval.New(fmt.Sprintf("cannot use %s as a string", d.kind))
	}
	if !utf8.Valid(bs) {
		return "", evalerr.Codec.New("bytes value is not valid UTF-8")
	}
	return string(bs), nil
}

// Equal reports whether x and y are the identical Datum (same kind, same
// payload). It does not implement SQL equality semantics — see eval's EQ
// and NullEQ operator handlers for that.
func Equal(x, y Datum) bool { return x == y }
