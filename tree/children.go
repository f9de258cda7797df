package tree

import (
	"fmt"
	"iter"
	"slices"

	"github.com/arloliu/ctree/codec"
	"github.com/arloliu/ctree/endian"
	"github.com/arloliu/ctree/errs"
	"github.com/arloliu/ctree/format"
)

// Children iterates over the children of a node, last-added child first.
//
// The iterator holds the not yet visited part of the children region and
// shrinks it from the right on every step. It cannot be rewound; call Root
// again on the parent view to start over.
type Children[V any] struct {
	region  []byte
	codec   codec.Codec[V]
	checked bool
	err     error
}

// Next returns the next child view, or false once all children have been
// visited.
//
// Iterators from Root panic on malformed regions. Iterators from CheckedRoot
// stop instead and record the problem in Err.
func (c *Children[V]) Next() (View[V], bool) {
	if len(c.region) == 0 || c.err != nil {
		return View[V]{}, false
	}

	n := len(c.region)
	if err := checkChildTrailer(c.region); err != nil {
		if !c.checked {
			panic(err)
		}
		c.err = err

		return View[V]{}, false
	}

	size := int(endian.ReadTrailer(c.region)) + format.TrailerSize //nolint:gosec
	split := n - size
	child := c.region[split:]
	c.region = c.region[:split]

	return View[V]{bytes: child, codec: c.codec}, true
}

// checkChildTrailer verifies that the last child in region fits inside it.
func checkChildTrailer(region []byte) error {
	n := len(region)
	if n < format.TrailerSize {
		return fmt.Errorf("%w: %d bytes left in children region, shorter than a trailer", errs.ErrMalformedTree, n)
	}
	if t := endian.ReadTrailer(region); t > format.TreeSize(n-format.TrailerSize) {
		return fmt.Errorf("%w: child trailer %d exceeds %d available bytes", errs.ErrMalformedTree, t, n-format.TrailerSize)
	}

	return nil
}

// Err returns the validation error that stopped a checked iterator.
func (c *Children[V]) Err() error {
	return c.err
}

// Remaining returns the number of bytes of children not yet visited.
func (c *Children[V]) Remaining() int {
	return len(c.region)
}

// All returns a range-over-func adapter that drains the iterator.
func (c *Children[V]) All() iter.Seq[View[V]] {
	return func(yield func(View[V]) bool) {
		for {
			child, ok := c.Next()
			if !ok || !yield(child) {
				return
			}
		}
	}
}

// Collect drains the iterator into a slice in read order, last-added child first.
func (c *Children[V]) Collect() []View[V] {
	var out []View[V]
	for child := range c.All() {
		out = append(out, child)
	}

	return out
}

// InsertionOrder drains the iterator into a slice in the order the children
// were added to the builder.
func (c *Children[V]) InsertionOrder() []View[V] {
	out := c.Collect()
	slices.Reverse(out)

	return out
}
