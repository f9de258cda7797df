// Package errs defines the sentinel errors returned by ctree packages.
//
// Errors are wrapped with additional context using fmt.Errorf and %w, so
// callers should match them with errors.Is.
package errs

import "errors"

// Builder errors.
var (
	// ErrSinkWrite is returned when the underlying writer rejects a node's bytes.
	ErrSinkWrite = errors.New("tree sink write failed")
	// ErrBuilderPoisoned is returned by every AddNode call after a failed write.
	ErrBuilderPoisoned = errors.New("builder unusable after failed write")
	// ErrIncompleteTree is returned when finishing a builder that does not hold exactly one root.
	ErrIncompleteTree = errors.New("builder does not hold exactly one root")
)

// Reader errors, only produced by the checked decode path.
var (
	ErrMalformedTree  = errors.New("malformed tree encoding")
	ErrMalformedValue = errors.New("malformed value encoding")
)

// Codec errors.
var (
	ErrUnsupportedCompression = errors.New("unsupported compression type")
	// ErrDecodedSizeOutOfRange is returned when a declared decompressed size
	// is more than the compressed input could possibly expand to.
	ErrDecodedSizeOutOfRange = errors.New("declared decompressed size out of range")
)

// Frame errors.
var (
	ErrInvalidFrame        = errors.New("invalid frame")
	ErrInvalidMagicNumber  = errors.New("invalid frame magic number")
	ErrUnsupportedVersion  = errors.New("unsupported frame version")
	ErrUnsupportedChecksum = errors.New("unsupported checksum type")
	ErrChecksumMismatch    = errors.New("frame checksum mismatch")
)
