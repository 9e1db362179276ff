package avl

import (
	"iter"

	"github.com/amp-labs/name-sorter/sortable"
)

// Tree is a height-balanced binary search tree over a Sortable type.
// The zero value is an empty tree ready to use.
type Tree[T sortable.Sortable[T]] struct {
	root *node[T]
	size int
}

// New creates a new empty tree.
func New[T sortable.Sortable[T]]() *Tree[T] {
	return &Tree[T]{}
}

// Len returns the number of values inserted so far, duplicates included.
// Time complexity: O(1).
func (t *Tree[T]) Len() int {
	return t.size
}

// Height returns the height of the tree: 0 when empty, 1 for a single value.
func (t *Tree[T]) Height() int {
	return t.root.getHeight()
}

// Insert adds value to the tree. Values that compare equal to existing ones
// are kept and placed to their right. Insert never fails.
// Time complexity: O(log n).
//
// The insertion runs in two passes over an explicit path stack:
//  1. Descend from the root, pushing each visited node, going left when
//     value is strictly less than the node and right otherwise.
//  2. Attach the new leaf, then pop the path back toward the root,
//     refreshing heights. The first unbalanced ancestor is rotated, its
//     replacement is linked into that ancestor's parent, and the ascent
//     ends there.
func (t *Tree[T]) Insert(value T) {
	leaf := newNode(value)
	t.size++

	if t.root == nil {
		t.root = leaf

		return
	}

	var path stack[*node[T]]

	parent := t.root
	for cur := t.root; cur != nil; {
		path.push(cur)
		parent = cur

		if value.LessThan(cur.value) {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}

	if value.LessThan(parent.value) {
		parent.left = leaf
	} else {
		parent.right = leaf
	}

	for path.len() > 0 {
		ancestor := path.pop()
		ancestor.refreshHeight()

		subtree := rebalance(ancestor)
		if subtree == ancestor {
			continue
		}

		// The ancestor's parent is the next frame on the path. It is
		// relinked by which child slot held the ancestor, which keeps
		// equal values from being attached on the wrong side.
		if path.len() == 0 {
			t.root = subtree
		} else {
			path.peek().replaceChild(ancestor, subtree)
		}

		// The rotated subtree is back to its height before the insert,
		// so nothing above it needs refreshing.
		return
	}
}

// All returns an iterator over the values in non-decreasing order. The walk
// uses an explicit stack and does not modify the tree, so it can be run any
// number of times. Stopping the range loop early ends the walk.
//
// Values that compare equal come out in insertion order: ties are placed
// to the right, and rotations preserve the in-order sequence.
func (t *Tree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		var pending stack[*node[T]]

		cur := t.root
		for cur != nil || pending.len() > 0 {
			// Push the left spine; its bottom is the next smallest value.
			for cur != nil {
				pending.push(cur)
				cur = cur.left
			}

			cur = pending.pop()
			if !yield(cur.value) {
				return
			}

			cur = cur.right
		}
	}
}

// TraverseInOrder returns every value in non-decreasing order. An empty
// tree yields an empty, non-nil slice. Calling it repeatedly without
// intervening inserts returns identical sequences.
// Time complexity: O(n).
func (t *Tree[T]) TraverseInOrder() []T {
	out := make([]T, 0, t.size)

	for v := range t.All() {
		out = append(out, v)
	}

	return out
}
