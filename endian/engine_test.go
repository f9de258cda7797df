package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestNativeEngine(t *testing.T) {
	var probe uint16 = 0x0102
	first := (*[2]byte)(unsafe.Pointer(&probe))[0]

	switch first {
	case 0x01:
		require.Equal(t, binary.BigEndian, NativeEngine())
	case 0x02:
		require.Equal(t, binary.LittleEndian, NativeEngine())
	default:
		require.Failf(t, "unexpected byte value", "got: %v", first)
	}

	require.True(t, IsNative(NativeEngine()))
}

func TestEngines(t *testing.T) {
	require.Equal(t, binary.LittleEndian, GetLittleEndianEngine())
	require.Equal(t, binary.BigEndian, GetBigEndianEngine())
	require.Equal(t, binary.LittleEndian, TrailerEngine())
}

func TestTrailerRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	PutTrailer(buf, 0x0102030405060708)

	require.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, buf)
	require.Equal(t, uint64(0x0102030405060708), ReadTrailer(buf))
}

func TestReadTrailerUsesLastBytes(t *testing.T) {
	buf := []byte{0xAA, 0xBB, 4, 0, 0, 0, 0, 0, 0, 0}
	require.Equal(t, uint64(4), ReadTrailer(buf))
}

func TestTrailerPanicsOnShortSlice(t *testing.T) {
	require.Panics(t, func() { PutTrailer(make([]byte, 7), 1) })
	require.Panics(t, func() { ReadTrailer(make([]byte, 7)) })
}
