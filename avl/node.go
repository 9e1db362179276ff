package avl

import (
	"fmt"

	"github.com/amp-labs/name-sorter/sortable"
)

// node is a single tree node. Each node is owned by exactly one link: its
// parent's left or right field, or the tree's root. There are no parent
// pointers; upward movement always goes through an explicit stack.
type node[T sortable.Sortable[T]] struct {
	value T
	left  *node[T]
	right *node[T]

	// height is 1 for a leaf. It is a cache derived from the children and
	// must be refreshed after any structural change beneath the node.
	height int
}

func newNode[T sortable.Sortable[T]](value T) *node[T] {
	return &node[T]{value: value, height: 1}
}

// String returns a debug representation of the node showing its value and height.
func (n *node[T]) String() string {
	return fmt.Sprintf("(%#v : h=%d)", n.value, n.height)
}

// getHeight returns the cached height, or 0 for a missing node.
func (n *node[T]) getHeight() int {
	if n == nil {
		return 0
	}

	return n.height
}

// balance returns the left height minus the right height, or 0 for a missing node.
func (n *node[T]) balance() int {
	if n == nil {
		return 0
	}

	return n.left.getHeight() - n.right.getHeight()
}

func (n *node[T]) refreshHeight() {
	n.height = 1 + max(n.left.getHeight(), n.right.getHeight())
}

// replaceChild points whichever child link currently holds old at repl.
func (n *node[T]) replaceChild(old, repl *node[T]) {
	if n.left == old {
		n.left = repl
	} else {
		n.right = repl
	}
}

// rotateRight lifts parent.left above parent and returns it as the new
// subtree root.
//
//	    parent          pivot
//	    /    \          /   \
//	 pivot    c   =>   a   parent
//	 /   \                 /    \
//	a     b               b      c
func rotateRight[T sortable.Sortable[T]](parent *node[T]) *node[T] {
	pivot := parent.left

	parent.left = pivot.right
	pivot.right = parent

	// parent now sits below pivot, so it has to be refreshed first.
	parent.refreshHeight()
	pivot.refreshHeight()

	return pivot
}

// rotateLeft lifts parent.right above parent and returns it as the new
// subtree root. It mirrors rotateRight.
func rotateLeft[T sortable.Sortable[T]](parent *node[T]) *node[T] {
	pivot := parent.right

	parent.right = pivot.left
	pivot.left = parent

	parent.refreshHeight()
	pivot.refreshHeight()

	return pivot
}

// rebalance restores the AVL condition at n, whose height must already be
// fresh, and returns the root of the resulting subtree. It returns n itself
// when no rotation was needed.
func rebalance[T sortable.Sortable[T]](n *node[T]) *node[T] {
	switch bf := n.balance(); {
	case bf > 1:
		// Left-right: turn it into left-left first.
		if n.left.balance() < 0 {
			n.left = rotateLeft(n.left)
		}

		return rotateRight(n)
	case bf < -1:
		// Right-left: turn it into right-right first.
		if n.right.balance() > 0 {
			n.right = rotateRight(n.right)
		}

		return rotateLeft(n)
	default:
		return n
	}
}
