package codec

import (
	"encoding/binary"
	"io"

	"github.com/arloliu/ctree/internal/pool"
)

// Variable-length values are laid out as
//
//	[payload][length as reverse uvarint]
//
// A reverse uvarint is a standard uvarint with its bytes in reverse order, so
// the last byte of the value is the least significant 7-bit group and the
// continuation bit points leftwards.

// appendReverseUvarint appends x to dst as a reverse uvarint.
func appendReverseUvarint(dst []byte, x uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], x)
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, tmp[i])
	}

	return dst
}

// readReverseUvarint decodes the reverse uvarint ending at the last byte of b.
// It returns the value and the number of bytes it occupies, or n == 0 if b
// ends in a truncated or overlong varint.
func readReverseUvarint(b []byte) (x uint64, n int) {
	var shift uint
	for i := len(b) - 1; i >= 0 && n < binary.MaxVarintLen64; i-- {
		c := b[i]
		n++
		if n == binary.MaxVarintLen64 && c > 1 {
			return 0, 0
		}
		x |= uint64(c&0x7f) << shift
		if c < 0x80 {
			return x, n
		}
		shift += 7
	}

	return 0, 0
}

// splitVarlen locates the payload of the variable-length value ending at the
// last byte of b and returns it with the total size of the value.
func splitVarlen(b []byte) (payload []byte, size int, err error) {
	length, n := readReverseUvarint(b)
	if n == 0 {
		return nil, 0, malformed("truncated length prefix")
	}
	if length > uint64(len(b)-n) {
		return nil, 0, malformed("payload length %d exceeds %d available bytes", length, len(b)-n)
	}
	end := len(b) - n
	start := end - int(length) //nolint:gosec

	return b[start:end], int(length) + n, nil //nolint:gosec
}

// mustSplitVarlen is splitVarlen for the trusted decode path.
func mustSplitVarlen(b []byte) ([]byte, int) {
	payload, size, err := splitVarlen(b)
	if err != nil {
		panic(err)
	}

	return payload, size
}

// writeVarlen writes payload followed by its reverse uvarint length in a
// single Write call.
func writeVarlen(w io.Writer, payload []byte) (int, error) {
	bb := pool.GetValueBuffer()
	defer pool.PutValueBuffer(bb)

	bb.Grow(len(payload) + binary.MaxVarintLen64)
	_, _ = bb.Write(payload)
	bb.B = appendReverseUvarint(bb.B, uint64(len(payload)))

	return writeAll(w, bb.Bytes())
}

// String stores a string as its UTF-8 bytes followed by a reverse uvarint length.
type String struct{}

var _ CheckedCodec[string] = String{}

func (String) Encode(w io.Writer, v string) (int, error) {
	return writeVarlen(w, []byte(v))
}

func (String) DecodeFromBack(b []byte) (int, string) {
	payload, size := mustSplitVarlen(b)
	return size, string(payload)
}

func (String) CheckedDecodeFromBack(b []byte) (int, string, error) {
	payload, size, err := splitVarlen(b)
	if err != nil {
		return 0, "", err
	}

	return size, string(payload), nil
}

// Bytes stores a byte slice followed by a reverse uvarint length.
//
// Decoded slices alias the tree buffer; callers must copy them before
// modifying.
type Bytes struct{}

var _ CheckedCodec[[]byte] = Bytes{}

func (Bytes) Encode(w io.Writer, v []byte) (int, error) {
	return writeVarlen(w, v)
}

func (Bytes) DecodeFromBack(b []byte) (int, []byte) {
	payload, size := mustSplitVarlen(b)
	return size, payload[:len(payload):len(payload)]
}

func (Bytes) CheckedDecodeFromBack(b []byte) (int, []byte, error) {
	payload, size, err := splitVarlen(b)
	if err != nil {
		return 0, nil, err
	}

	return size, payload[:len(payload):len(payload)], nil
}
