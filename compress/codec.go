package compress

import (
	"fmt"
	"math"

	"github.com/arloliu/ctree/errs"
	"github.com/arloliu/ctree/format"
)

// Compressor compresses a complete block.
//
// The returned slice is owned by the caller; the input is never modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a block produced by the matching Compressor.
//
// Implementations return an error if the data is corrupted or was produced
// by a different algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression for one algorithm.
type Codec interface {
	Compressor
	Decompressor

	// Type identifies the algorithm in encoded output.
	Type() format.CompressionType

	// MaxDecodedLen returns an upper bound on the number of bytes data can
	// decompress to. It never allocates and only inspects headers.
	MaxDecodedLen(data []byte) int
}

// SizedDecompressor is implemented by codecs that can decompress directly
// into a buffer of the known original size.
type SizedDecompressor interface {
	DecompressSized(data []byte, rawSize int) ([]byte, error)
}

// DecompressSized decompresses data whose original length is rawSize,
// using the codec's sized path when it has one.
//
// rawSize usually comes from untrusted input, so it is checked against
// codec.MaxDecodedLen before any buffer is allocated; sizes out of range
// return errs.ErrDecodedSizeOutOfRange.
func DecompressSized(codec Codec, data []byte, rawSize int) ([]byte, error) {
	if limit := codec.MaxDecodedLen(data); rawSize < 0 || rawSize > limit {
		return nil, fmt.Errorf("%w: %s input of %d bytes cannot decompress to %d bytes (limit %d)",
			errs.ErrDecodedSizeOutOfRange, codec.Type(), len(data), rawSize, limit)
	}

	var (
		out []byte
		err error
	)
	if sd, ok := codec.(SizedDecompressor); ok {
		out, err = sd.DecompressSized(data, rawSize)
	} else {
		out, err = codec.Decompress(data)
	}
	if err != nil {
		return nil, err
	}
	if len(out) != rawSize {
		return nil, fmt.Errorf("%s decompression produced %d bytes, want %d", codec.Type(), len(out), rawSize)
	}

	return out, nil
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s (0x%02x)", errs.ErrUnsupportedCompression, compressionType, uint8(compressionType))
}

// expansionLimit returns n*ratio, saturating at math.MaxInt.
func expansionLimit(n, ratio int) int {
	if n > math.MaxInt/ratio {
		return math.MaxInt
	}

	return n * ratio
}
