package tree

import (
	"bytes"
	"fmt"

	"github.com/arloliu/ctree/codec"
	"github.com/arloliu/ctree/endian"
	"github.com/arloliu/ctree/errs"
	"github.com/arloliu/ctree/format"
	"github.com/arloliu/ctree/internal/hash"
)

// Owned is a tree buffer together with the codec that reads its values.
type Owned[V any] struct {
	bytes []byte
	codec codec.Codec[V]
}

// NewOwned takes ownership of b, which must hold exactly one encoded tree.
// No validation is performed; call Validate when b comes from an untrusted
// source. The caller must not modify b afterwards.
func NewOwned[V any](b []byte, c codec.Codec[V]) *Owned[V] {
	return &Owned[V]{bytes: b, codec: c}
}

// View returns a view spanning the whole tree.
func (o *Owned[V]) View() View[V] {
	return View[V]{bytes: o.bytes, codec: o.codec}
}

// Bytes returns the encoded tree. The slice must not be modified.
func (o *Owned[V]) Bytes() []byte {
	return o.bytes
}

// Len returns the encoded length of the tree in bytes.
func (o *Owned[V]) Len() int {
	return len(o.bytes)
}

// Codec returns the value codec of the tree.
func (o *Owned[V]) Codec() codec.Codec[V] {
	return o.codec
}

// View is a borrowed, read-only window onto the encoding of one subtree.
//
// A View is two words plus the codec and is meant to be passed by value. It
// keeps the underlying array reachable, so it stays valid for as long as it
// is referenced.
type View[V any] struct {
	bytes []byte
	codec codec.Codec[V]
}

// ViewOf interprets b as one encoded tree without copying or validating it.
func ViewOf[V any](b []byte, c codec.Codec[V]) View[V] {
	return View[V]{bytes: b, codec: c}
}

// Root decodes the value of the view's root node and returns an iterator
// over its children.
//
// The view is trusted to be well formed; malformed bytes make Root or the
// returned iterator panic. Use CheckedRoot for untrusted input.
func (v View[V]) Root() (V, Children[V]) {
	body := v.bytes[:len(v.bytes)-format.TrailerSize]
	sizeValue, value := v.codec.DecodeFromBack(body)

	return value, Children[V]{
		region: body[:len(body)-sizeValue],
		codec:  v.codec,
	}
}

// CheckedRoot is Root with validation of the root trailer and value.
//
// Errors wrap errs.ErrMalformedTree. The returned iterator validates every
// child trailer and reports problems through Children.Err.
func (v View[V]) CheckedRoot() (V, Children[V], error) {
	var zero V

	n := len(v.bytes)
	if n < format.TrailerSize {
		return zero, Children[V]{}, fmt.Errorf("%w: view of %d bytes is shorter than a trailer", errs.ErrMalformedTree, n)
	}
	if trailer := endian.ReadTrailer(v.bytes); trailer != format.TreeSize(n-format.TrailerSize) {
		return zero, Children[V]{}, fmt.Errorf("%w: trailer %d does not match view length %d", errs.ErrMalformedTree, trailer, n)
	}

	body := v.bytes[:n-format.TrailerSize]
	sizeValue, value, err := codec.DecodeChecked(v.codec, body)
	if err != nil {
		return zero, Children[V]{}, fmt.Errorf("%w: root value: %w", errs.ErrMalformedTree, err)
	}

	return value, Children[V]{
		region:  body[:len(body)-sizeValue],
		codec:   v.codec,
		checked: true,
	}, nil
}

// Value decodes only the root value.
func (v View[V]) Value() V {
	value, _ := v.Root()
	return value
}

// IsLeaf reports whether the root has no children.
func (v View[V]) IsLeaf() bool {
	_, children := v.Root()
	return children.Remaining() == 0
}

// Trailer returns the size recorded in the root trailer, which for a well
// formed view is Len()-8.
func (v View[V]) Trailer() format.TreeSize {
	return endian.ReadTrailer(v.bytes)
}

// Len returns the encoded length of the subtree, trailer included.
func (v View[V]) Len() int {
	return len(v.bytes)
}

// Bytes returns the encoded subtree. The slice aliases the tree buffer and
// must not be modified.
func (v View[V]) Bytes() []byte {
	return v.bytes
}

// Clone copies the subtree into a new Owned tree that shares no memory with v.
func (v View[V]) Clone() *Owned[V] {
	return NewOwned(bytes.Clone(v.bytes), v.codec)
}

// Checksum returns the xxHash64 of the subtree encoding. Equal subtrees
// written with the same codec have equal checksums wherever they appear.
func (v View[V]) Checksum() uint64 {
	return hash.Sum64(v.bytes)
}

// Equal reports whether both views hold byte-identical encodings.
func (v View[V]) Equal(other View[V]) bool {
	return bytes.Equal(v.bytes, other.bytes)
}
