package tree

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/arloliu/ctree/codec"
	"github.com/arloliu/ctree/endian"
	"github.com/arloliu/ctree/errs"
	"github.com/arloliu/ctree/format"
)

// Builder serializes a tree into an io.Writer in depth-first post-order.
//
// Node values are written immediately; the builder only remembers the sizes
// of subtrees that are complete but not yet attached to a parent.
type Builder[V any] struct {
	w     io.Writer
	codec codec.Codec[V]
	log   *slog.Logger

	// open holds the full encoded length, trailer included, of every
	// completed subtree without a parent, oldest first.
	open    []format.TreeSize
	written int64
	err     error
}

// NewBuilder creates a Builder writing to w with values encoded by c.
//
// w is not buffered by the builder; wrap it in a bufio.Writer for file or
// network sinks and flush it once the root has been added.
func NewBuilder[V any](w io.Writer, c codec.Codec[V], opts ...BuilderOption) *Builder[V] {
	cfg := newBuilderConfig(opts)

	return newBuilder(w, c, make([]format.TreeSize, 0, cfg.stackCap), cfg)
}

func newBuilder[V any](w io.Writer, c codec.Codec[V], open []format.TreeSize, cfg builderConfig) *Builder[V] {
	return &Builder[V]{
		w:     w,
		codec: c,
		log:   cfg.logger,
		open:  open,
	}
}

// AddNode writes a node holding value whose children are the numChildren
// most recently completed subtrees that have no parent yet.
//
// Panics if numChildren is negative or larger than OpenCount; nothing is
// written in that case. A write error is returned wrapped in
// errs.ErrSinkWrite and leaves the builder unusable: the sink keeps whatever
// was partially written and every later call returns errs.ErrBuilderPoisoned.
func (b *Builder[V]) AddNode(value V, numChildren int) error {
	if numChildren < 0 || numChildren > len(b.open) {
		panic(fmt.Sprintf("tree: AddNode with %d children but only %d unattached subtrees", numChildren, len(b.open)))
	}
	if b.err != nil {
		return fmt.Errorf("%w: %w", errs.ErrBuilderPoisoned, b.err)
	}

	sizeValue, err := b.codec.Encode(b.w, value)
	b.written += int64(sizeValue)
	if err != nil {
		return b.fail("value", err)
	}

	split := len(b.open) - numChildren
	var sizeChildren format.TreeSize
	for _, size := range b.open[split:] {
		sizeChildren += size
	}
	b.open = b.open[:split]

	total := format.TreeSize(sizeValue) + sizeChildren //nolint:gosec
	var trailer [format.TrailerSize]byte
	endian.PutTrailer(trailer[:], total)

	n, err := b.w.Write(trailer[:])
	b.written += int64(n)
	if err == nil && n != format.TrailerSize {
		err = io.ErrShortWrite
	}
	if err != nil {
		return b.fail("trailer", err)
	}

	b.open = append(b.open, total+format.TrailerSize)

	if b.log.Enabled(context.Background(), slog.LevelDebug) {
		b.log.Debug("Added node",
			"value_size", sizeValue,
			"children", numChildren,
			"node_size", total+format.TrailerSize,
			"open", len(b.open),
		)
	}

	return nil
}

func (b *Builder[V]) fail(part string, err error) error {
	b.err = err
	b.log.Warn("Tree sink write failed; builder is no longer usable",
		"part", part,
		"written", b.written,
		"err", err,
	)

	return fmt.Errorf("%w: writing node %s: %w", errs.ErrSinkWrite, part, err)
}

// OpenCount returns the number of completed subtrees not yet attached to a
// parent. A finished tree has exactly one.
func (b *Builder[V]) OpenCount() int {
	return len(b.open)
}

// OpenSizes returns a copy of the encoded lengths of the unattached subtrees,
// oldest first.
func (b *Builder[V]) OpenSizes() []format.TreeSize {
	out := make([]format.TreeSize, len(b.open))
	copy(out, b.open)

	return out
}

// Written returns the number of bytes handed to the sink so far, including
// any partial write that failed.
func (b *Builder[V]) Written() int64 {
	return b.written
}

// Err returns the write error that poisoned the builder, if any.
func (b *Builder[V]) Err() error {
	return b.err
}
