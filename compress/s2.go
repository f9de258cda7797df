package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/ctree/format"
)

// s2MaxRatio bounds the output of one block byte; a 4-byte repeat tag
// copies at most 1<<24 + 65540 bytes.
const s2MaxRatio = 1 << 23

// S2Compressor is a fast block compressor suited to values that are read often.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

func (c S2Compressor) Type() format.CompressionType {
	return format.CompressionS2
}

// Compress compresses data using S2 block format.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses an S2 block.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

// MaxDecodedLen returns the length recorded in the block header, or 0 if the
// header is corrupt or records more than the block could expand to.
func (c S2Compressor) MaxDecodedLen(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n, err := s2.DecodedLen(data)
	if err != nil || n > expansionLimit(len(data), s2MaxRatio) {
		return 0
	}

	return n
}

// DecompressSized decompresses into a buffer of exactly rawSize bytes.
//
// The block header must record rawSize; s2 would otherwise allocate the
// length the header claims.
func (c S2Compressor) DecompressSized(data []byte, rawSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, err
	}
	if n != rawSize {
		return nil, fmt.Errorf("s2 block header records %d bytes, want %d", n, rawSize)
	}

	return s2.Decode(make([]byte, rawSize), data)
}
