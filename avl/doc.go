// Package avl provides a generic, height-balanced binary search tree whose
// algorithms never recurse.
//
// # Overview
//
// [Tree] stores values of any type implementing
// [github.com/amp-labs/name-sorter/sortable.Sortable]. It supports exactly
// two operations: [Tree.Insert] and in-order traversal ([Tree.All] and
// [Tree.TraverseInOrder]). It is a write-then-drain container: there is no
// lookup and no deletion.
//
// Values that compare equal are all kept. On insertion a value that is not
// less than a node goes to that node's right, so the tree behaves as a
// multiset and a full traversal yields every inserted value.
//
// # Why iterative
//
// Recursive insert and walk functions use one call frame per level. That is
// fine for a balanced tree, but code that walks a tree before it has been
// rebalanced, or a tree built by a buggy balancer, can go as deep as the
// number of values. Both operations here keep their own explicit stack of
// visited nodes instead:
//
//   - Insert pushes every node it passes on the way down, attaches the new
//     leaf, then pops the path back up, refreshing cached heights and
//     applying AVL rotations.
//   - Traversal pushes the left spine of the current subtree, pops the next
//     smallest node, emits it, and continues from its right child.
//
// # Balancing
//
// Each node caches its height. On the way up from an insertion the first
// ancestor whose balance factor (left height minus right height) leaves
// [-1, 1] is fixed with a single or double rotation, and the ascent stops
// there: after an insertion, one rotation at the lowest unbalanced ancestor
// restores that subtree to its previous height, so nothing above it changes.
//
// Heights therefore stay within about 1.44·log2(n), and both Insert and the
// per-step cost of traversal are O(log n).
//
// # Thread Safety
//
// A Tree is not safe for concurrent use. It has no internal locking and
// assumes a single owner for its lifetime.
package avl
