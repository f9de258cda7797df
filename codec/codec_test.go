package codec

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctree/endian"
	"github.com/arloliu/ctree/errs"
	"github.com/arloliu/ctree/format"
)

// roundTrip encodes v after some unrelated prefix bytes and checks that the
// value decodes from the back with consumed == written.
func roundTrip[V any](t *testing.T, c Codec[V], v V) V {
	t.Helper()

	var buf bytes.Buffer
	buf.Write([]byte{0xde, 0xad, 0xbe, 0xef})

	n, err := c.Encode(&buf, v)
	require.NoError(t, err)
	require.Equal(t, buf.Len()-4, n, "Encode must report the bytes it wrote")

	consumed, got := c.DecodeFromBack(buf.Bytes())
	require.Equal(t, n, consumed)

	checkedN, checkedV, err := DecodeChecked(c, buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, n, checkedN)
	require.Equal(t, got, checkedV)

	return got
}

func TestFixedWidthRoundTrip(t *testing.T) {
	require.Equal(t, uint8(0), roundTrip[uint8](t, U8(), 0))
	require.Equal(t, uint8(255), roundTrip[uint8](t, U8(), 255))

	require.True(t, roundTrip[bool](t, Bool{}, true))
	require.False(t, roundTrip[bool](t, Bool{}, false))

	for _, v := range []int32{0, 42, -1, math.MinInt32, math.MaxInt32} {
		require.Equal(t, v, roundTrip[int32](t, LeI32(), v))
		require.Equal(t, v, roundTrip[int32](t, NewInt32(endian.GetBigEndianEngine()), v))
		require.Equal(t, v, roundTrip[int32](t, Int32{}, v))
	}

	for _, v := range []uint32{0, 1, math.MaxUint32} {
		require.Equal(t, v, roundTrip[uint32](t, NewUint32(nil), v))
	}

	for _, v := range []int64{0, -42, math.MinInt64, math.MaxInt64} {
		require.Equal(t, v, roundTrip[int64](t, NewInt64(endian.GetLittleEndianEngine()), v))
	}

	for _, v := range []uint64{0, 1 << 40, math.MaxUint64} {
		require.Equal(t, v, roundTrip[uint64](t, NewUint64(endian.GetBigEndianEngine()), v))
	}

	for _, v := range []float64{0, -1.5, math.Pi, math.Inf(1), math.SmallestNonzeroFloat64} {
		require.Equal(t, v, roundTrip[float64](t, NewFloat64(nil), v))
	}

	require.Equal(t, struct{}{}, roundTrip[struct{}](t, Unit{}, struct{}{}))
}

func TestLeI32Layout(t *testing.T) {
	var buf bytes.Buffer
	n, err := LeI32().Encode(&buf, 42)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{42, 0, 0, 0}, buf.Bytes())

	buf.Reset()
	_, err = NewInt32(endian.GetBigEndianEngine()).Encode(&buf, 42)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 42}, buf.Bytes())
}

func TestFixedWidthCheckedRejectsShortInput(t *testing.T) {
	_, _, err := DecodeChecked[int32](LeI32(), []byte{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrMalformedValue)

	_, _, err = DecodeChecked[uint64](NewUint64(nil), make([]byte, 7))
	require.ErrorIs(t, err, errs.ErrMalformedValue)

	_, _, err = DecodeChecked[uint8](U8(), nil)
	require.ErrorIs(t, err, errs.ErrMalformedValue)

	_, _, err = DecodeChecked[bool](Bool{}, []byte{2})
	require.ErrorIs(t, err, errs.ErrMalformedValue)
}

func TestFixedWidthTrustedPanicsOnShortInput(t *testing.T) {
	require.Panics(t, func() { LeI32().DecodeFromBack([]byte{1}) })
	require.Panics(t, func() { U8().DecodeFromBack(nil) })
}

func TestReverseUvarint(t *testing.T) {
	for _, x := range []uint64{0, 1, 127, 128, 300, 1 << 32, math.MaxUint64} {
		enc := appendReverseUvarint([]byte{0xff, 0xff}, x)
		got, n := readReverseUvarint(enc)
		require.Equal(t, x, got)
		require.Equal(t, len(enc)-2, n)
	}

	// The last byte carries the least significant group.
	require.Equal(t, []byte{0x02, 0xac}, appendReverseUvarint(nil, 300))

	_, n := readReverseUvarint(nil)
	require.Zero(t, n)

	_, n = readReverseUvarint([]byte{0x80})
	require.Zero(t, n, "continuation bit with nothing to the left")

	overlong := bytes.Repeat([]byte{0xff}, 11)
	_, n = readReverseUvarint(overlong)
	require.Zero(t, n)
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "héllo wörld", string(bytes.Repeat([]byte("x"), 1000))} {
		require.Equal(t, s, roundTrip[string](t, String{}, s))
	}
}

func TestBytesRoundTrip(t *testing.T) {
	require.Empty(t, roundTrip[[]byte](t, Bytes{}, nil))
	require.Equal(t, []byte{1, 2, 3}, roundTrip[[]byte](t, Bytes{}, []byte{1, 2, 3}))

	// Decoded slices are capped so appending cannot clobber the buffer.
	var buf bytes.Buffer
	_, _ = Bytes{}.Encode(&buf, []byte("abc"))
	_, v := Bytes{}.DecodeFromBack(buf.Bytes())
	require.Equal(t, len(v), cap(v))
}

func TestVarlenCheckedRejectsBadLength(t *testing.T) {
	// Claims 10 payload bytes but only 2 precede the length.
	bad := []byte{'a', 'b', 10}

	_, _, err := DecodeChecked[string](String{}, bad)
	require.ErrorIs(t, err, errs.ErrMalformedValue)

	_, _, err = DecodeChecked[[]byte](Bytes{}, []byte{0x80})
	require.ErrorIs(t, err, errs.ErrMalformedValue)

	require.Panics(t, func() { String{}.DecodeFromBack(bad) })
}

type point struct {
	X int    `cbor:"x"`
	Y int    `cbor:"y"`
	L string `cbor:"label"`
}

func TestCBORRoundTrip(t *testing.T) {
	p := point{X: 3, Y: -4, L: "corner"}
	require.Equal(t, p, roundTrip[point](t, CBOR[point]{}, p))

	m := map[string]any{"kind": "ident", "name": "x"}
	got := roundTrip[map[string]any](t, CBOR[map[string]any]{}, m)
	require.Equal(t, "ident", got["kind"])
	require.Equal(t, "x", got["name"])
}

func TestCBORDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	_, err := CBOR[map[string]int]{}.Encode(&a, map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	_, err = CBOR[map[string]int]{}.Encode(&b, map[string]int{"c": 3, "a": 1, "b": 2})
	require.NoError(t, err)

	require.Equal(t, a.Bytes(), b.Bytes())
}

func TestCBORCheckedRejectsGarbage(t *testing.T) {
	garbage := appendReverseUvarint([]byte{0xff, 0xff}, 2)

	_, _, err := DecodeChecked[point](CBOR[point]{}, garbage)
	require.ErrorIs(t, err, errs.ErrMalformedValue)
}

func TestCompressedRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("subtree payload "), 64)

	for _, typ := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(typ.String(), func(t *testing.T) {
			c, err := NewCompressed(typ)
			require.NoError(t, err)

			require.Equal(t, payload, roundTrip[[]byte](t, c, payload))
			require.Empty(t, roundTrip[[]byte](t, c, nil))
		})
	}
}

func TestCompressedShrinks(t *testing.T) {
	payload := bytes.Repeat([]byte{7}, 4096)
	c, err := NewCompressed(format.CompressionZstd)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := c.Encode(&buf, payload)
	require.NoError(t, err)
	require.Less(t, n, len(payload))
}

func TestCompressedDecodesAnyAlgorithm(t *testing.T) {
	lz, err := NewCompressed(format.CompressionLZ4)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = lz.Encode(&buf, []byte("written with lz4, read with zero value"))
	require.NoError(t, err)

	_, got := Compressed{}.DecodeFromBack(buf.Bytes())
	require.Equal(t, "written with lz4, read with zero value", string(got))
}

func TestCompressedRejectsUnknownType(t *testing.T) {
	_, err := NewCompressed(format.CompressionType(0x55))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	// payload "ab", raw length 2, bogus type, compressed length 2
	bad := []byte{'a', 'b', 2, 0x55, 2}
	_, _, err = DecodeChecked[[]byte](Compressed{}, bad)
	require.ErrorIs(t, err, errs.ErrMalformedValue)
}

func TestCompressedRejectsForgedLengths(t *testing.T) {
	// forge lays out [payload][raw length][type][compressed length].
	forge := func(payload []byte, rawLen uint64, typ format.CompressionType, compLen uint64) []byte {
		b := bytes.Clone(payload)
		b = appendReverseUvarint(b, rawLen)
		b = append(b, byte(typ))

		return appendReverseUvarint(b, compLen)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"lz4 raw length beyond slice limit", forge([]byte{0x10}, 1<<62, format.CompressionLZ4, 1)},
		{"lz4 raw length beyond memory", forge([]byte{0x10}, 1<<40, format.CompressionLZ4, 1)},
		{"zstd raw length beyond memory", forge([]byte{0x28, 0xb5, 0x2f, 0xfd}, 1<<40, format.CompressionZstd, 4)},
		{"s2 raw length beyond header", forge([]byte{0x10}, 1<<40, format.CompressionS2, 1)},
		{"none raw length beyond payload", forge([]byte("ab"), 1<<40, format.CompressionNone, 2)},
		{"raw length max uint64", forge([]byte("ab"), math.MaxUint64, format.CompressionNone, 2)},
		{"compressed length beyond input", forge([]byte("ab"), 2, format.CompressionNone, 1<<60)},
		{"compressed length max uint64", forge([]byte("ab"), 2, format.CompressionNone, math.MaxUint64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, _, err = DecodeChecked[[]byte](Compressed{}, tt.data)
			})
			require.ErrorIs(t, err, errs.ErrMalformedValue)
			require.Panics(t, func() { Compressed{}.DecodeFromBack(tt.data) })
		})
	}
}

type panickyCodec struct{}

func (panickyCodec) Encode(io.Writer, int) (int, error) { return 0, nil }
func (panickyCodec) DecodeFromBack([]byte) (int, int)   { panic("boom") }

type greedyCodec struct{}

func (greedyCodec) Encode(io.Writer, int) (int, error) { return 0, nil }
func (greedyCodec) DecodeFromBack(b []byte) (int, int) { return len(b) + 1, 0 }

func TestDecodeCheckedWithPlainCodec(t *testing.T) {
	_, _, err := DecodeChecked[int](panickyCodec{}, []byte{1})
	require.ErrorIs(t, err, errs.ErrMalformedValue)
	require.Contains(t, err.Error(), "boom")

	_, _, err = DecodeChecked[int](greedyCodec{}, []byte{1, 2})
	require.ErrorIs(t, err, errs.ErrMalformedValue)
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

type errWriter struct{}

var errSink = errors.New("sink closed")

func (errWriter) Write([]byte) (int, error) { return 0, errSink }

func TestEncodeSinkErrors(t *testing.T) {
	_, err := LeI32().Encode(shortWriter{}, 1)
	require.ErrorIs(t, err, io.ErrShortWrite)

	_, err = String{}.Encode(errWriter{}, "x")
	require.ErrorIs(t, err, errSink)

	_, err = CBOR[int]{}.Encode(errWriter{}, 1)
	require.ErrorIs(t, err, errSink)
}
