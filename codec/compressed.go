package codec

import (
	"encoding/binary"
	"io"

	"github.com/arloliu/ctree/compress"
	"github.com/arloliu/ctree/format"
	"github.com/arloliu/ctree/internal/pool"
)

// Compressed stores byte slices compressed with one of the built-in
// algorithms. The layout is
//
//	[compressed payload][raw length][compression type: 1 byte][compressed length]
//
// with both lengths as reverse uvarints. The algorithm is recorded per value,
// so a Compressed codec decodes values written with any compression type.
type Compressed struct {
	codec compress.Codec
}

var _ CheckedCodec[[]byte] = Compressed{}

// NewCompressed creates a codec that compresses values with compressionType.
func NewCompressed(compressionType format.CompressionType) (Compressed, error) {
	c, err := compress.GetCodec(compressionType)
	if err != nil {
		return Compressed{}, err
	}

	return Compressed{codec: c}, nil
}

func (c Compressed) compressor() compress.Codec {
	if c.codec == nil {
		return compress.NewNoOpCompressor()
	}

	return c.codec
}

func (c Compressed) Encode(w io.Writer, v []byte) (int, error) {
	codec := c.compressor()
	data, err := codec.Compress(v)
	if err != nil {
		return 0, err
	}

	bb := pool.GetValueBuffer()
	defer pool.PutValueBuffer(bb)

	bb.Grow(len(data) + 2*binary.MaxVarintLen64 + 1)
	_, _ = bb.Write(data)
	bb.B = appendReverseUvarint(bb.B, uint64(len(v)))
	bb.B = append(bb.B, byte(codec.Type()))
	bb.B = appendReverseUvarint(bb.B, uint64(len(data)))

	return writeAll(w, bb.Bytes())
}

func (c Compressed) DecodeFromBack(b []byte) (int, []byte) {
	n, v, err := c.CheckedDecodeFromBack(b)
	if err != nil {
		panic(err)
	}

	return n, v
}

func (c Compressed) CheckedDecodeFromBack(b []byte) (int, []byte, error) {
	compLen, n := readReverseUvarint(b)
	if n == 0 {
		return 0, nil, malformed("truncated compressed length")
	}
	rest := b[:len(b)-n]
	if len(rest) == 0 {
		return 0, nil, malformed("missing compression type")
	}
	typ := format.CompressionType(rest[len(rest)-1])
	rest = rest[:len(rest)-1]

	rawLen, m := readReverseUvarint(rest)
	if m == 0 {
		return 0, nil, malformed("truncated raw length")
	}
	rest = rest[:len(rest)-m]
	if compLen > uint64(len(rest)) {
		return 0, nil, malformed("compressed length %d exceeds %d available bytes", compLen, len(rest))
	}
	if rawLen > format.MaxNodeSize {
		return 0, nil, malformed("raw length %d too large", rawLen)
	}

	codec, err := compress.GetCodec(typ)
	if err != nil {
		return 0, nil, malformed("%v", err)
	}
	payload := rest[len(rest)-int(compLen):] //nolint:gosec
	out, err := compress.DecompressSized(codec, payload, int(rawLen)) //nolint:gosec
	if err != nil {
		return 0, nil, malformed("%v", err)
	}

	return int(compLen) + m + 1 + n, out, nil //nolint:gosec
}
