package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/rowstore/xeval/datum"
	"github.com/rowstore/xeval/evalerr"
)

// Tag is the one-byte type discriminator that precedes every value-list
// element on the wire.
type Tag byte

// The tag set the decoder must handle. Null/I64/U64/Bytes are the minimum
// set spec.md requires; F32/F64 round out the value model so a literal
// float can still travel through an encoded list, even though no operator
// ever accepts the resulting Datum.
const (
	TagNull Tag = iota
	TagI64
	TagU64
	TagBytes
	TagF32
	TagF64
)

// DecodeValueList reads a self-describing stream of Datums: each element is
// a one-byte type tag followed by a type-specific payload. The producer
// guarantees the result is sorted ascending by Datum total order, with a
// leading Null (if present) sorting first; the decoder trusts that
// invariant and does not re-sort.
func DecodeValueList(b []byte) ([]datum.Datum, error) {
	var out []datum.Datum
	for len(b) > 0 {
		tag := Tag(b[0])
		b = b[1:]

		var d datum.Datum
		var err error
		d, b, err = decodeOne(tag, b)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func decodeOne(tag Tag, b []byte) (datum.Datum, []byte, error) {
	switch tag {
	case TagNull:
		return datum.Null, b, nil
	case TagI64:
		if len(b) < Int64Size {
			return datum.Datum{}, nil, evalerr.Codec.New("truncated I64 value in value list")
		}
		v, err := DecodeI64(b[:Int64Size])
		if err != nil {
			return datum.Datum{}, nil, err
		}
		return datum.NewI64(v), b[Int64Size:], nil
	case TagU64:
		if len(b) < Uint64Size {
			return datum.Datum{}, nil, evalerr.Codec.New("truncated U64 value in value list")
		}
		v, err := DecodeU64(b[:Uint64Size])
		if err != nil {
			return datum.Datum{}, nil, err
		}
		return datum.NewU64(v), b[Uint64Size:], nil
	case TagF32:
		if len(b) < 4 {
			return datum.Datum{}, nil, evalerr.Codec.New("truncated F32 value in value list")
		}
		bits := binary.BigEndian.Uint32(b[:4])
		return datum.NewF32(math.Float32frombits(bits)), b[4:], nil
	case TagF64:
		if len(b) < 8 {
			return datum.Datum{}, nil, evalerr.Codec.New("truncated F64 value in value list")
		}
		bits := binary.BigEndian.Uint64(b[:8])
		return datum.NewF64(math.Float64frombits(bits)), b[8:], nil
	case TagBytes:
		if len(b) < 4 {
			return datum.Datum{}, nil, evalerr.Codec.New("truncated Bytes length prefix in value list")
		}
		n := binary.BigEndian.Uint32(b[:4])
		b = b[4:]
		if uint64(len(b)) < uint64(n) {
			return datum.Datum{}, nil, evalerr.Codec.New("truncated Bytes payload in value list")
		}
		return datum.NewBytes(append([]byte(nil), b[:n]...)), b[n:], nil
	default:
		return datum.Datum{}, nil, evalerr.Codec.New(fmt.Sprintf("unknown value list tag %d", tag))
	}
}

// EncodeDatum encodes a single Datum using the same (tag, payload) shape a
// value-list element uses. It is the format rowstore uses to persist one
// column binding per key in its embedded row store.
func EncodeDatum(d datum.Datum) ([]byte, error) {
	return encodeOne(nil, d)
}

// DecodeDatum decodes a single Datum encoded by EncodeDatum. It errors if
// there are bytes left over after the one value, since a single-datum slot
// should contain exactly one encoded element.
func DecodeDatum(b []byte) (datum.Datum, error) {
	if len(b) == 0 {
		return datum.Datum{}, evalerr.Codec.New("empty datum payload")
	}
	d, rest, err := decodeOne(Tag(b[0]), b[1:])
	if err != nil {
		return datum.Datum{}, err
	}
	if len(rest) != 0 {
		return datum.Datum{}, evalerr.Codec.New("trailing bytes after single datum payload")
	}
	return d, nil
}

// EncodeValueList is the inverse of DecodeValueList. It does not sort its
// input — callers (tests, the demo harness, a hypothetical planner) are
// responsible for handing it values already sorted ascending by Datum total
// order, Null first, matching the wire contract DecodeValueList trusts.
func EncodeValueList(values []datum.Datum) ([]byte, error) {
	var buf []byte
	for _, d := range values {
		var err error
		buf, err = encodeOne(buf, d)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func encodeOne(buf []byte, d datum.Datum) ([]byte, error) {
	switch d.Kind() {
	case datum.KindNull:
		return append(buf, byte(TagNull)), nil
	case datum.KindI64:
		v, _ := d.Int64()
		buf = append(buf, byte(TagI64))
		return EncodeI64(buf, v), nil
	case datum.KindU64:
		v, _ := d.Uint64()
		buf = append(buf, byte(TagU64))
		return EncodeU64(buf, v), nil
	case datum.KindBytes:
		v, _ := d.BytesValue()
		buf = append(buf, byte(TagBytes))
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(v)))
		buf = append(buf, lenBuf[:]...)
		return append(buf, v...), nil
	case datum.KindF32:
		v, _ := d.Float32Value()
		buf = append(buf, byte(TagF32))
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], math.Float32bits(v))
		return append(buf, tmp[:]...), nil
	case datum.KindF64:
		v, _ := d.Float64Value()
		buf = append(buf, byte(TagF64))
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], math.Float64bits(v))
		return append(buf, tmp[:]...), nil
	default:
		return nil, evalerr.Codec.New(fmt.Sprintf("cannot encode datum of kind %s", d.Kind()))
	}
}
