package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2) so equal values
// always produce equal node bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// CBOR stores arbitrary Go values as CBOR documents followed by a reverse
// uvarint length.
type CBOR[T any] struct{}

var _ CheckedCodec[map[string]any] = CBOR[map[string]any]{}

func (CBOR[T]) Encode(w io.Writer, v T) (int, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return 0, err
	}

	return writeVarlen(w, data)
}

func (c CBOR[T]) DecodeFromBack(b []byte) (int, T) {
	n, v, err := c.CheckedDecodeFromBack(b)
	if err != nil {
		panic(err)
	}

	return n, v
}

func (CBOR[T]) CheckedDecodeFromBack(b []byte) (int, T, error) {
	var v T
	payload, size, err := splitVarlen(b)
	if err != nil {
		return 0, v, err
	}
	if err := decMode.Unmarshal(payload, &v); err != nil {
		return 0, v, malformed("cbor: %v", err)
	}

	return size, v, nil
}
