// Package compress provides the block compressors used by ctree for
// compressed node values and for frame payloads.
//
// # Supported Algorithms
//
//   - None: pass-through, the output aliases the input
//   - Zstd: best ratio, for archived trees and large leaf payloads
//   - S2: fast Snappy-compatible compression for values read often
//   - LZ4: fastest decompression
//
// Codecs are looked up by format.CompressionType with GetCodec.
//
// # Untrusted Sizes
//
// Compressed values and frames record the decompressed size next to the
// payload. DecompressSized checks that size against Codec.MaxDecodedLen, a
// per-algorithm bound derived from the compressed bytes alone, so a forged
// size cannot make the decoder allocate more than the input can expand to.
//
// # Thread Safety
//
// All codecs are stateless values backed by pooled encoder and decoder state
// and are safe for concurrent use.
package compress
