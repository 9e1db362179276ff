package sortable

import "cmp"

// Int is a sortable wrapper type for the built-in int type.
// It implements the Sortable[Int] interface, allowing integers to be stored
// in sorted containers such as avl.Tree.
//
// Example:
//
//	t := avl.New[sortable.Int]()
//	t.Insert(sortable.Int(5))
//	t.Insert(sortable.Int(3))
//	t.Insert(sortable.Int(7))
//	// t.TraverseInOrder() yields: 3, 5, 7
type Int int

// Compile-time check that Int implements Sortable[Int].
var _ Sortable[Int] = (*Int)(nil)

// Equals returns true if this Int has the same value as the other Int.
func (i Int) Equals(other Int) bool {
	return int(i) == int(other)
}

// LessThan returns true if this Int is numerically less than the other Int.
func (i Int) LessThan(other Int) bool {
	return int(i) < int(other)
}

// Compare orders Ints numerically.
func (i Int) Compare(other Int) int {
	return cmp.Compare(int(i), int(other))
}
