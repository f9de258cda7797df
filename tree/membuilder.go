package tree

import (
	"fmt"

	"github.com/arloliu/ctree/codec"
	"github.com/arloliu/ctree/errs"
	"github.com/arloliu/ctree/internal/pool"
)

// MemBuilder builds a tree into a pooled in-memory buffer.
//
// Finish or Discard must be called to return the buffer to the pool; the
// MemBuilder cannot be used afterwards.
type MemBuilder[V any] struct {
	builder *Builder[V]
	buf     *pool.ByteBuffer
	stack   *[]uint64
}

// NewMemBuilder creates a MemBuilder with values encoded by c.
func NewMemBuilder[V any](c codec.Codec[V], opts ...BuilderOption) *MemBuilder[V] {
	cfg := newBuilderConfig(opts)
	buf := pool.GetTreeBuffer()
	stack := pool.GetSizeStack(cfg.stackCap)

	return &MemBuilder[V]{
		builder: newBuilder(buf, c, *stack, cfg),
		buf:     buf,
		stack:   stack,
	}
}

// AddNode behaves like Builder.AddNode. Panics after Finish or Discard.
func (m *MemBuilder[V]) AddNode(value V, numChildren int) error {
	m.mustBeOpen()
	return m.builder.AddNode(value, numChildren)
}

// OpenCount returns the number of unattached subtrees.
func (m *MemBuilder[V]) OpenCount() int {
	m.mustBeOpen()
	return m.builder.OpenCount()
}

// Len returns the number of bytes encoded so far.
func (m *MemBuilder[V]) Len() int {
	m.mustBeOpen()
	return m.buf.Len()
}

// Finish copies the encoded tree out of the pooled buffer and releases it.
//
// The builder must hold exactly one unattached subtree, the root; otherwise
// errs.ErrIncompleteTree is returned and the builder stays usable so more
// nodes can be added.
func (m *MemBuilder[V]) Finish() (*Owned[V], error) {
	m.mustBeOpen()

	if err := m.builder.Err(); err != nil {
		m.Discard()
		return nil, fmt.Errorf("%w: %w", errs.ErrBuilderPoisoned, err)
	}
	if open := m.builder.OpenCount(); open != 1 {
		return nil, fmt.Errorf("%w: %d unattached subtrees", errs.ErrIncompleteTree, open)
	}

	out := m.buf.Clone()
	c := m.builder.codec
	m.Discard()

	return NewOwned(out, c), nil
}

// Discard releases the pooled resources without producing a tree. It is
// safe to call more than once.
func (m *MemBuilder[V]) Discard() {
	if m.buf == nil {
		return
	}
	pool.PutTreeBuffer(m.buf)
	*m.stack = m.builder.open
	pool.PutSizeStack(m.stack)

	m.buf = nil
	m.stack = nil
	m.builder = nil
}

func (m *MemBuilder[V]) mustBeOpen() {
	if m.buf == nil {
		panic("tree: MemBuilder already finished - cannot use after Finish or Discard")
	}
}

// Build runs fn against an in-memory builder and returns the finished tree.
func Build[V any](c codec.Codec[V], fn func(b *Builder[V]) error, opts ...BuilderOption) (*Owned[V], error) {
	m := NewMemBuilder(c, opts...)
	if err := fn(m.builder); err != nil {
		m.Discard()
		return nil, err
	}
	owned, err := m.Finish()
	if err != nil {
		m.Discard()
		return nil, err
	}

	return owned, nil
}
