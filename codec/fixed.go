package codec

import (
	"io"
	"math"

	"github.com/arloliu/ctree/endian"
)

// fixedWidth is shared by the fixed-width codecs. A nil engine means little-endian.
type fixedWidth struct {
	engine endian.EndianEngine
}

func (f fixedWidth) order() endian.EndianEngine {
	if f.engine == nil {
		return endian.GetLittleEndianEngine()
	}

	return f.engine
}

func checkWidth(b []byte, width int) error {
	if len(b) < width {
		return malformed("need %d bytes, have %d", width, len(b))
	}

	return nil
}

// Uint8 stores a uint8 in one byte.
type Uint8 struct{}

var _ CheckedCodec[uint8] = Uint8{}

// U8 returns the single-byte unsigned codec.
func U8() Uint8 { return Uint8{} }

func (Uint8) Encode(w io.Writer, v uint8) (int, error) {
	return writeAll(w, []byte{v})
}

func (Uint8) DecodeFromBack(b []byte) (int, uint8) {
	return 1, b[len(b)-1]
}

func (c Uint8) CheckedDecodeFromBack(b []byte) (int, uint8, error) {
	if err := checkWidth(b, 1); err != nil {
		return 0, 0, err
	}
	n, v := c.DecodeFromBack(b)

	return n, v, nil
}

// Bool stores a bool as a single 0 or 1 byte.
type Bool struct{}

var _ CheckedCodec[bool] = Bool{}

func (Bool) Encode(w io.Writer, v bool) (int, error) {
	var b byte
	if v {
		b = 1
	}

	return writeAll(w, []byte{b})
}

func (Bool) DecodeFromBack(b []byte) (int, bool) {
	return 1, b[len(b)-1] != 0
}

func (c Bool) CheckedDecodeFromBack(b []byte) (int, bool, error) {
	if err := checkWidth(b, 1); err != nil {
		return 0, false, err
	}
	if last := b[len(b)-1]; last > 1 {
		return 0, false, malformed("bool byte 0x%02x", last)
	}
	n, v := c.DecodeFromBack(b)

	return n, v, nil
}

// Int32 stores an int32 in four bytes.
type Int32 struct{ fixedWidth }

var _ CheckedCodec[int32] = Int32{}

// NewInt32 creates an int32 codec using the given byte order.
func NewInt32(engine endian.EndianEngine) Int32 {
	return Int32{fixedWidth{engine: engine}}
}

// LeI32 returns the little-endian int32 codec.
func LeI32() Int32 { return NewInt32(endian.GetLittleEndianEngine()) }

func (c Int32) Encode(w io.Writer, v int32) (int, error) {
	var buf [4]byte
	c.order().PutUint32(buf[:], uint32(v)) //nolint:gosec

	return writeAll(w, buf[:])
}

func (c Int32) DecodeFromBack(b []byte) (int, int32) {
	return 4, int32(c.order().Uint32(b[len(b)-4:])) //nolint:gosec
}

func (c Int32) CheckedDecodeFromBack(b []byte) (int, int32, error) {
	if err := checkWidth(b, 4); err != nil {
		return 0, 0, err
	}
	n, v := c.DecodeFromBack(b)

	return n, v, nil
}

// Uint32 stores a uint32 in four bytes.
type Uint32 struct{ fixedWidth }

var _ CheckedCodec[uint32] = Uint32{}

// NewUint32 creates a uint32 codec using the given byte order.
func NewUint32(engine endian.EndianEngine) Uint32 {
	return Uint32{fixedWidth{engine: engine}}
}

func (c Uint32) Encode(w io.Writer, v uint32) (int, error) {
	var buf [4]byte
	c.order().PutUint32(buf[:], v)

	return writeAll(w, buf[:])
}

func (c Uint32) DecodeFromBack(b []byte) (int, uint32) {
	return 4, c.order().Uint32(b[len(b)-4:])
}

func (c Uint32) CheckedDecodeFromBack(b []byte) (int, uint32, error) {
	if err := checkWidth(b, 4); err != nil {
		return 0, 0, err
	}
	n, v := c.DecodeFromBack(b)

	return n, v, nil
}

// Int64 stores an int64 in eight bytes.
type Int64 struct{ fixedWidth }

var _ CheckedCodec[int64] = Int64{}

// NewInt64 creates an int64 codec using the given byte order.
func NewInt64(engine endian.EndianEngine) Int64 {
	return Int64{fixedWidth{engine: engine}}
}

func (c Int64) Encode(w io.Writer, v int64) (int, error) {
	var buf [8]byte
	c.order().PutUint64(buf[:], uint64(v)) //nolint:gosec

	return writeAll(w, buf[:])
}

func (c Int64) DecodeFromBack(b []byte) (int, int64) {
	return 8, int64(c.order().Uint64(b[len(b)-8:])) //nolint:gosec
}

func (c Int64) CheckedDecodeFromBack(b []byte) (int, int64, error) {
	if err := checkWidth(b, 8); err != nil {
		return 0, 0, err
	}
	n, v := c.DecodeFromBack(b)

	return n, v, nil
}

// Uint64 stores a uint64 in eight bytes.
type Uint64 struct{ fixedWidth }

var _ CheckedCodec[uint64] = Uint64{}

// NewUint64 creates a uint64 codec using the given byte order.
func NewUint64(engine endian.EndianEngine) Uint64 {
	return Uint64{fixedWidth{engine: engine}}
}

func (c Uint64) Encode(w io.Writer, v uint64) (int, error) {
	var buf [8]byte
	c.order().PutUint64(buf[:], v)

	return writeAll(w, buf[:])
}

func (c Uint64) DecodeFromBack(b []byte) (int, uint64) {
	return 8, c.order().Uint64(b[len(b)-8:])
}

func (c Uint64) CheckedDecodeFromBack(b []byte) (int, uint64, error) {
	if err := checkWidth(b, 8); err != nil {
		return 0, 0, err
	}
	n, v := c.DecodeFromBack(b)

	return n, v, nil
}

// Float64 stores a float64 as its IEEE 754 bits in eight bytes.
type Float64 struct{ fixedWidth }

var _ CheckedCodec[float64] = Float64{}

// NewFloat64 creates a float64 codec using the given byte order.
func NewFloat64(engine endian.EndianEngine) Float64 {
	return Float64{fixedWidth{engine: engine}}
}

func (c Float64) Encode(w io.Writer, v float64) (int, error) {
	var buf [8]byte
	c.order().PutUint64(buf[:], math.Float64bits(v))

	return writeAll(w, buf[:])
}

func (c Float64) DecodeFromBack(b []byte) (int, float64) {
	return 8, math.Float64frombits(c.order().Uint64(b[len(b)-8:]))
}

func (c Float64) CheckedDecodeFromBack(b []byte) (int, float64, error) {
	if err := checkWidth(b, 8); err != nil {
		return 0, 0, err
	}
	n, v := c.DecodeFromBack(b)

	return n, v, nil
}

// Unit encodes nothing. It is used for trees where only the shape matters.
type Unit struct{}

var _ CheckedCodec[struct{}] = Unit{}

func (Unit) Encode(io.Writer, struct{}) (int, error) {
	return 0, nil
}

func (Unit) DecodeFromBack([]byte) (int, struct{}) {
	return 0, struct{}{}
}

func (Unit) CheckedDecodeFromBack([]byte) (int, struct{}, error) {
	return 0, struct{}{}, nil
}
