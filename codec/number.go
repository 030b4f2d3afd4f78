// Package codec implements the wire-level decoding (and, for tests and the
// demo harness, encoding) of the two payload shapes the evaluator consumes:
// fixed-width big-endian integers and self-describing value lists.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/rowstore/xeval/evalerr"
)

// Int64Size and Uint64Size are the wire width of an integer literal payload.
const (
	Int64Size  = 8
	Uint64Size = 8
)

// DecodeI64 interprets exactly 8 bytes as a big-endian signed integer.
func DecodeI64(b []byte) (int64, error) {
	u, err := DecodeU64(b)
	return int64(u), err
}

// DecodeU64 interprets exactly 8 bytes as a big-endian unsigned integer.
func DecodeU64(b []byte) (uint64, error) {
	if len(b) != Uint64Size {
		return 0, evalerr.Codec.New(fmt.Sprintf("need %d bytes to decode an integer, got %d", Uint64Size, len(b)))
	}
	return binary.BigEndian.Uint64(b), nil
}

// EncodeI64 appends the big-endian encoding of v to buf.
func EncodeI64(buf []byte, v int64) []byte {
	return EncodeU64(buf, uint64(v))
}

// EncodeU64 appends the big-endian encoding of v to buf.
func EncodeU64(buf []byte, v uint64) []byte {
	var tmp [Uint64Size]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}
