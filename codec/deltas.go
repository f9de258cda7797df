package codec

import (
	"encoding/binary"
	"io"

	"github.com/arloliu/ctree/internal/pool"
)

// Int64s stores an int64 sequence with delta-of-delta compression, suited to
// monotone or evenly spaced data such as source offsets or timestamps.
//
// The payload is the element count as a uvarint followed by the first value,
// the first delta and then every delta-of-delta, each zigzag encoded as a
// uvarint. It is framed like String, so the value is self-delimiting from
// the right. Evenly spaced sequences cost about one byte per element.
type Int64s struct{}

var _ CheckedCodec[[]int64] = Int64s{}

func (Int64s) Encode(w io.Writer, v []int64) (int, error) {
	bb := pool.GetValueBuffer()
	defer pool.PutValueBuffer(bb)

	// ~1.5 bytes per element for regular spacing, plus the count and head.
	bb.Grow(binary.MaxVarintLen64*3 + len(v) + len(v)/2)
	bb.B = binary.AppendUvarint(bb.B, uint64(len(v)))

	var prev, prevDelta int64
	for i, x := range v {
		var next int64
		switch i {
		case 0:
			next = x
		case 1:
			prevDelta = x - prev
			next = prevDelta
		default:
			delta := x - prev
			next = delta - prevDelta
			prevDelta = delta
		}
		bb.B = binary.AppendUvarint(bb.B, zigzag(next))
		prev = x
	}

	return writeVarlen(w, bb.Bytes())
}

func (Int64s) DecodeFromBack(b []byte) (int, []int64) {
	payload, size := mustSplitVarlen(b)
	values, err := decodeDeltas(payload)
	if err != nil {
		panic(err)
	}

	return size, values
}

func (Int64s) CheckedDecodeFromBack(b []byte) (int, []int64, error) {
	payload, size, err := splitVarlen(b)
	if err != nil {
		return 0, nil, err
	}
	values, err := decodeDeltas(payload)
	if err != nil {
		return 0, nil, err
	}

	return size, values, nil
}

func decodeDeltas(payload []byte) ([]int64, error) {
	count, n := binary.Uvarint(payload)
	if n <= 0 {
		return nil, malformed("truncated element count")
	}
	payload = payload[n:]
	// Every element takes at least one byte.
	if count > uint64(len(payload)) {
		return nil, malformed("element count %d exceeds %d payload bytes", count, len(payload))
	}

	values := make([]int64, count)
	var prev, prevDelta int64
	for i := range values {
		u, n := binary.Uvarint(payload)
		if n <= 0 {
			return nil, malformed("truncated element %d", i)
		}
		payload = payload[n:]

		d := unzigzag(u)
		switch i {
		case 0:
			prev = d
		case 1:
			prevDelta = d
			prev += d
		default:
			prevDelta += d
			prev += prevDelta
		}
		values[i] = prev
	}
	if len(payload) != 0 {
		return nil, malformed("%d trailing payload bytes", len(payload))
	}

	return values, nil
}

func zigzag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63)) //nolint:gosec
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1) //nolint:gosec
}
