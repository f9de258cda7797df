package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/ctree/format"
)

// lz4CompressorPool pools lz4.Compressor instances, which keep a hash table between calls.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

const (
	// maxLZ4Expansion bounds the buffer Decompress grows to when the original size is unknown.
	maxLZ4Expansion = 128 * 1024 * 1024
	// lz4MaxRatio bounds the output of one block byte: a match length
	// extension byte adds at most 255 bytes.
	lz4MaxRatio = 255
)

// LZ4Compressor compresses blocks with LZ4.
//
// LZ4 blocks do not record their decompressed size; prefer DecompressSized
// when the size is known, as it is for compressed values and frames.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

func (c LZ4Compressor) Type() format.CompressionType {
	return format.CompressionLZ4
}

// Compress compresses data into a single LZ4 block.
//
// Incompressible input makes CompressBlock report zero bytes; such input is
// still emitted as a valid block so decompression stays uniform.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return literalLZ4Block(data), nil
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block of unknown original size.
//
// The output buffer starts at four times the input and doubles on
// ErrInvalidSourceShortBuffer up to a 128MiB limit.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	for bufSize := len(data) * 4; bufSize <= maxLZ4Expansion; bufSize *= 2 {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, err
		}
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}

// MaxDecodedLen bounds the output of an LZ4 block by lz4MaxRatio times its length.
func (c LZ4Compressor) MaxDecodedLen(data []byte) int {
	return expansionLimit(len(data), lz4MaxRatio)
}

// DecompressSized decompresses an LZ4 block into exactly rawSize bytes.
func (c LZ4Compressor) DecompressSized(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	buf := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, err
	}

	return buf[:n], nil
}

// literalLZ4Block encodes data as one LZ4 sequence made only of literals.
func literalLZ4Block(data []byte) []byte {
	n := len(data)
	out := make([]byte, 0, n+n/255+2)
	if n < 15 {
		out = append(out, byte(n<<4))
	} else {
		out = append(out, 0xF0)
		rest := n - 15
		for rest >= 255 {
			out = append(out, 255)
			rest -= 255
		}
		out = append(out, byte(rest))
	}

	return append(out, data...)
}
