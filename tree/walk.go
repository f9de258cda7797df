package tree

import (
	"fmt"
	"slices"
)

type walkItem[V any] struct {
	view  View[V]
	depth int
}

// Walk visits every node of the tree rooted at v in depth-first pre-order,
// children in read order (last-added first). fn receives the node's depth,
// 0 for v itself; returning false skips the node's descendants.
//
// Walk uses the trusted decode path and panics on malformed trees.
func Walk[V any](v View[V], fn func(depth int, node View[V]) bool) {
	stack := []walkItem[V]{{view: v}}
	var scratch []View[V]

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(item.depth, item.view) {
			continue
		}

		_, children := item.view.Root()
		scratch = scratch[:0]
		for child := range children.All() {
			scratch = append(scratch, child)
		}
		// Push in reverse so the first child read is visited first.
		for i := len(scratch) - 1; i >= 0; i-- {
			stack = append(stack, walkItem[V]{view: scratch[i], depth: item.depth + 1})
		}
	}
}

// Count returns the number of nodes in the tree rooted at v.
func Count[V any](v View[V]) int {
	n := 0
	Walk(v, func(int, View[V]) bool {
		n++
		return true
	})

	return n
}

// Validate checks the whole tree rooted at v: every trailer must fit its
// region exactly and every value must decode. It returns the first problem
// found, wrapping errs.ErrMalformedTree, prefixed with the path of child
// indexes (in read order) leading to the offending node.
func (v View[V]) Validate() error {
	stack := []validateItem[V]{{view: v}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		_, children, err := item.view.CheckedRoot()
		if err != nil {
			return fmt.Errorf("node %v: %w", item.at.path(), err)
		}

		idx := 0
		for child := range children.All() {
			stack = append(stack, validateItem[V]{view: child, at: &treePath{parent: item.at, index: idx}})
			idx++
		}
		if err := children.Err(); err != nil {
			return fmt.Errorf("node %v: %w", item.at.path(), err)
		}
	}

	return nil
}

type validateItem[V any] struct {
	view View[V]
	at   *treePath
}

// treePath is a parent-linked child index; nil is the root.
type treePath struct {
	parent *treePath
	index  int
}

func (p *treePath) path() []int {
	out := []int{}
	for ; p != nil; p = p.parent {
		out = append(out, p.index)
	}
	slices.Reverse(out)

	return out
}
