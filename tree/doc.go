// Package tree writes trees into a single contiguous byte buffer and reads
// any subtree back in place.
//
// # Layout
//
// Every node is encoded as
//
//	[child 1][child 2]...[child k][value][trailer: 8 bytes]
//
// The trailer is a little-endian uint64 holding the length of the value and
// all children bytes, excluding the trailer itself. A node's full encoding is
// therefore trailer+8 bytes long and ends with its own trailer, so any node can
// be decoded from its byte range alone, reading from the high end backwards:
// trailer, then the value (whose codec finds its own start from the right),
// then the children, peeled off one at a time from the right.
//
// There is no header, magic number or version tag. Wrap buffers with the
// frame package when a self-checking container is needed.
//
// # Building
//
// Builder consumes nodes in depth-first post-order: all descendants of a node
// are added before the node itself, and AddNode is told how many of the most
// recently completed subtrees become its children. Only the sizes of
// completed, unattached subtrees are kept in memory.
//
//	b := tree.NewBuilder(w, codec.U8())
//	_ = b.AddNode(1, 0) // leaf A
//	_ = b.AddNode(2, 0) // leaf B
//	_ = b.AddNode(3, 2) // parent of A and B
//
// # Reading
//
// Owned holds a finished buffer; View is a borrowed window onto one encoded
// subtree. Root decodes a view's value and returns a lazy Children iterator.
// Children come back in reverse insertion order: the last child added is read
// first. In the example above, the parent yields B and then A.
//
// Root and Children.Next trust the buffer and panic on malformed input.
// CheckedRoot validates trailers and values as it goes and reports
// errs.ErrMalformedTree instead; Validate checks a whole tree up front.
//
// # Thread Safety
//
// A Builder must be used from one goroutine at a time. Owned values and views
// never modify their bytes and can be read concurrently. A Children iterator
// holds cursor state and belongs to the goroutine that created it.
package tree
