package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/ctree/format"
)

// zstdDecoderPool pools zstd decoders; klauspost/compress decoders run
// allocation-free once warmed up.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

// zstdSizedDecoderPool holds decoders that never grow the output beyond the
// capacity of the destination, so a forged frame content size cannot force
// a larger allocation than the caller sized for.
var zstdSizedDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
			zstd.WithDecodeAllCapLimit(true),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// zstdMaxRatio bounds the output of one input byte: the densest block is
// an RLE block, 4 bytes expanding to the 128KiB block maximum.
const zstdMaxRatio = 1 << 15

// ZstdCompressor trades speed for ratio; it suits archived trees and large
// leaf payloads.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}

// Compress compresses data with a pooled encoder.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// MaxDecodedLen bounds the output by zstdMaxRatio times the input length.
func (c ZstdCompressor) MaxDecodedLen(data []byte) int {
	return expansionLimit(len(data), zstdMaxRatio)
}

// Decompress decompresses Zstd data with a pooled decoder.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	return c.decode(&zstdDecoderPool, data, nil)
}

// DecompressSized decompresses into a buffer preallocated to rawSize and
// fails rather than grow it.
func (c ZstdCompressor) DecompressSized(data []byte, rawSize int) ([]byte, error) {
	return c.decode(&zstdSizedDecoderPool, data, make([]byte, 0, rawSize))
}

func (c ZstdCompressor) decode(pool *sync.Pool, data, dst []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder, _ := pool.Get().(*zstd.Decoder)
	defer pool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, dst)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}
