// Package format holds the constants and small enum types shared by the
// ctree packages: the trailer layout of the core node encoding and the
// compression and checksum identifiers used by value codecs and frames.
package format

import "math"

// TreeSize is the on-disk type of a node trailer. It is fixed at 64 bits
// so the byte layout does not depend on the platform that produced it.
type TreeSize = uint64

const (
	TrailerSize = 8 // TrailerSize is the byte length of every node trailer.

	// MaxNodeSize is the largest trailer value a reader can address as a Go slice length.
	MaxNodeSize = math.MaxInt - TrailerSize
)

type (
	CompressionType uint8
	ChecksumType    uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	ChecksumNone   ChecksumType = 0x0 // ChecksumNone disables payload checksums.
	ChecksumXXHash ChecksumType = 0x1 // ChecksumXXHash is a 64-bit xxHash of the payload.
	ChecksumBLAKE3 ChecksumType = 0x2 // ChecksumBLAKE3 is a 256-bit BLAKE3 digest of the payload.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (c ChecksumType) String() string {
	switch c {
	case ChecksumNone:
		return "None"
	case ChecksumXXHash:
		return "XXHash64"
	case ChecksumBLAKE3:
		return "BLAKE3"
	default:
		return "Unknown"
	}
}

// Size returns the number of digest bytes the checksum occupies, or -1 for
// an unknown checksum type.
func (c ChecksumType) Size() int {
	switch c {
	case ChecksumNone:
		return 0
	case ChecksumXXHash:
		return 8
	case ChecksumBLAKE3:
		return 32
	default:
		return -1
	}
}
