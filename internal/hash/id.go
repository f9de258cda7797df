// Package hash computes the content fingerprints used for subtree identity
// and frame checksums.
package hash

import (
	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Sum64 computes the xxHash64 of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Sum256 computes the 32-byte BLAKE3 digest of data.
func Sum256(data []byte) [32]byte {
	return blake3.Sum256(data)
}
