// Package endian provides byte order utilities for ctree value codecs and
// node trailers.
//
// The EndianEngine interface combines binary.ByteOrder and
// binary.AppendByteOrder so codecs can both put into fixed slices and append
// to growing buffers through one value.
//
// Node trailers are always little-endian regardless of the engine a value
// codec is configured with; use PutTrailer and ReadTrailer for them.
//
// # Thread Safety
//
// All functions and the returned engines are stateless and safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"

	"github.com/arloliu/ctree/format"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary.
//
// Both binary.LittleEndian and binary.BigEndian satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// trailerEngine is the byte order of every node trailer.
var trailerEngine EndianEngine = binary.LittleEndian

// NativeEngine returns the byte order of the host.
func NativeEngine() EndianEngine {
	// 0x0100: the lowest addressed byte is 0x01 only on big-endian hosts.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNative reports whether engine matches the host byte order.
func IsNative(engine EndianEngine) bool {
	return engine == NativeEngine()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// TrailerEngine returns the fixed byte order used for node trailers.
func TrailerEngine() EndianEngine {
	return trailerEngine
}

// PutTrailer writes size into the first format.TrailerSize bytes of dst.
// Panics if dst is shorter than a trailer.
func PutTrailer(dst []byte, size format.TreeSize) {
	trailerEngine.PutUint64(dst[:format.TrailerSize], size)
}

// ReadTrailer reads the trailer stored in the last format.TrailerSize bytes of b.
// Panics if b is shorter than a trailer.
func ReadTrailer(b []byte) format.TreeSize {
	return trailerEngine.Uint64(b[len(b)-format.TrailerSize:])
}
