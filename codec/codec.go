// Package codec defines how a single node value is turned into bytes and back.
//
// A Codec writes a value forwards into a sink and reads it backwards from the
// right edge of a byte slice: DecodeFromBack receives a slice whose last byte
// is the last byte of the value and must work out on its own how many
// trailing bytes belong to it. Fixed-width codecs know their width; the
// variable-width codecs in this package end every value with a reverse
// uvarint length so it can be found from the right.
//
// The package ships fixed-width integer, float and bool codecs, string and
// byte codecs, a CBOR codec for arbitrary Go values and a compressing byte
// codec. Any type satisfying Codec can be plugged into the tree package.
package codec

import (
	"fmt"
	"io"

	"github.com/arloliu/ctree/errs"
)

// Codec encodes and decodes values of type V.
//
// For every value v, DecodeFromBack applied to the bytes written by
// Encode(w, v) must return v together with the number of bytes Encode
// reported, including when those bytes are preceded by unrelated data.
type Codec[V any] interface {
	// Encode writes v to w and returns the number of bytes written.
	Encode(w io.Writer, v V) (int, error)

	// DecodeFromBack decodes the value that ends at the last byte of b and
	// returns how many trailing bytes it occupies.
	//
	// b is trusted to end with a valid encoding; implementations may panic
	// otherwise.
	DecodeFromBack(b []byte) (int, V)
}

// CheckedCodec is implemented by codecs that can report malformed input
// instead of panicking.
type CheckedCodec[V any] interface {
	Codec[V]

	// CheckedDecodeFromBack is DecodeFromBack with bounds validation.
	// Errors wrap errs.ErrMalformedValue.
	CheckedDecodeFromBack(b []byte) (int, V, error)
}

// DecodeChecked decodes the value at the end of b without letting malformed
// input panic.
//
// Codecs implementing CheckedCodec are asked directly; for other codecs a
// panic raised by DecodeFromBack is recovered and reported as
// errs.ErrMalformedValue. The consumed length is always within len(b) when
// err is nil.
func DecodeChecked[V any](c Codec[V], b []byte) (n int, v V, err error) {
	if cc, ok := c.(CheckedCodec[V]); ok {
		n, v, err = cc.CheckedDecodeFromBack(b)
	} else {
		n, v, err = recoverDecode(c, b)
	}
	if err != nil {
		return 0, v, err
	}
	if n < 0 || n > len(b) {
		var zero V
		return 0, zero, fmt.Errorf("%w: codec consumed %d of %d bytes", errs.ErrMalformedValue, n, len(b))
	}

	return n, v, nil
}

func recoverDecode[V any](c Codec[V], b []byte) (n int, v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errs.ErrMalformedValue, r)
		}
	}()

	n, v = c.DecodeFromBack(b)

	return n, v, nil
}

// writeAll writes p to w and reports io.ErrShortWrite for writers that
// return fewer bytes without an error.
func writeAll(w io.Writer, p []byte) (int, error) {
	n, err := w.Write(p)
	if err != nil {
		return n, err
	}
	if n != len(p) {
		return n, io.ErrShortWrite
	}

	return n, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errs.ErrMalformedValue}, args...)...)
}
