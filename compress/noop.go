package compress

import "github.com/arloliu/ctree/format"

// NoOpCompressor stores data as-is.
//
// Both directions return the input slice without copying, so the result
// aliases the caller's memory.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

func (c NoOpCompressor) Type() format.CompressionType {
	return format.CompressionNone
}

// Compress returns data unchanged.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// MaxDecodedLen returns len(data).
func (c NoOpCompressor) MaxDecodedLen(data []byte) int {
	return len(data)
}
