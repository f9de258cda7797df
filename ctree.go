// Package ctree encodes trees into a single contiguous byte buffer that can be
// read back in place, one subtree at a time, without copying or decoding the
// parts that are not visited.
//
// Every node is written as its children, then its value, then an 8-byte
// little-endian trailer holding the size of everything before it:
//
//	[ child_1 ] ... [ child_k ] [ value ] [ trailer ]
//
// A reader starts at the end of the buffer, reads the trailer and the value,
// and walks the children backwards. Children are therefore read in the
// reverse of the order they were written.
//
// # Basic Usage
//
// Building a tree in depth-first post-order:
//
//	owned, err := ctree.Build(codec.String{}, func(b *tree.Builder[string]) error {
//	    b.AddNode("x", 0)
//	    b.AddNode("y", 0)
//	    return b.AddNode("+", 2)
//	})
//
// Reading it back:
//
//	value, children := owned.View().Root() // "+"
//	for child := range children.All() {
//	    fmt.Println(child.Value()) // "y", then "x"
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers. The building blocks
// live in their own packages:
//
//   - tree: Builder, MemBuilder, Owned, View and the Children iterator
//   - codec: the value codec contract and ready-made codecs
//   - frame: an optional checksummed and compressed container for storage
//   - compress: block compressors shared by codec.Compressed and frame
package ctree

import (
	"io"

	"github.com/arloliu/ctree/codec"
	"github.com/arloliu/ctree/format"
	"github.com/arloliu/ctree/frame"
	"github.com/arloliu/ctree/tree"
)

// NewBuilder creates a streaming builder that writes nodes to w.
//
// Example:
//
//	f, _ := os.Create("tree.bin")
//	b := ctree.NewBuilder(f, codec.LeI32())
func NewBuilder[V any](w io.Writer, c codec.Codec[V], opts ...tree.BuilderOption) *tree.Builder[V] {
	return tree.NewBuilder(w, c, opts...)
}

// NewMemBuilder creates a builder that collects the encoding in memory.
func NewMemBuilder[V any](c codec.Codec[V], opts ...tree.BuilderOption) *tree.MemBuilder[V] {
	return tree.NewMemBuilder(c, opts...)
}

// Build runs fn against an in-memory builder and returns the finished tree.
//
// fn must leave exactly one root, otherwise errs.ErrIncompleteTree is returned.
func Build[V any](c codec.Codec[V], fn func(b *tree.Builder[V]) error, opts ...tree.BuilderOption) (*tree.Owned[V], error) {
	return tree.Build(c, fn, opts...)
}

// Open takes ownership of an encoded tree without checking it.
//
// Only use Open for bytes produced by this process or otherwise trusted;
// malformed input makes later reads panic. See OpenChecked.
func Open[V any](data []byte, c codec.Codec[V]) *tree.Owned[V] {
	return tree.NewOwned(data, c)
}

// OpenChecked takes ownership of an encoded tree after validating every node.
//
// Returns an error wrapping errs.ErrMalformedTree if any trailer or value is
// inconsistent. Trees that pass can be read with the trusted accessors.
func OpenChecked[V any](data []byte, c codec.Codec[V]) (*tree.Owned[V], error) {
	owned := tree.NewOwned(data, c)
	if err := owned.View().Validate(); err != nil {
		return nil, err
	}

	return owned, nil
}

// Pack wraps a finished tree in a frame with an xxHash64 checksum and the
// given compression.
func Pack[V any](t *tree.Owned[V], compression format.CompressionType) ([]byte, error) {
	return frame.Encode(t.Bytes(), frame.WithCompression(compression))
}

// Unpack verifies a frame produced by Pack or frame.Encode and opens the
// tree inside.
func Unpack[V any](data []byte, c codec.Codec[V]) (*tree.Owned[V], error) {
	return frame.Open(data, c)
}
