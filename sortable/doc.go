// Package sortable provides wrapper types for primitive types that implement
// the Sortable interface, enabling their use in sorted containers.
//
// # Overview
//
// The sortable package defines the [Sortable] interface and provides ready-to-use
// implementations for [Int] and [String]. These types are designed to work with
// [github.com/amp-labs/name-sorter/avl.Tree].
//
// Sortable extends [github.com/amp-labs/name-sorter/compare.Ordered], which
// supplies Equals and the three-way Compare, by adding LessThan. Containers
// route on LessThan: a value that is not less than a node goes to its right,
// so values that compare equal are kept side by side rather than merged.
//
// # Creating Custom Sortable Types
//
// To create a custom sortable type, implement the Sortable interface:
//
//	type Task struct {
//	    Priority int
//	    Name     string
//	}
//
//	func (t Task) Compare(other Task) int {
//	    if c := cmp.Compare(t.Priority, other.Priority); c != 0 {
//	        return c
//	    }
//	    return strings.Compare(t.Name, other.Name)
//	}
//
//	func (t Task) Equals(other Task) bool   { return t.Compare(other) == 0 }
//	func (t Task) LessThan(other Task) bool { return t.Compare(other) < 0 }
//
// [github.com/amp-labs/name-sorter/names.PersonName] is the main Sortable in
// this module.
//
// # Thread Safety
//
// The wrapper types in this package are value types and are inherently thread-safe
// for read operations. Containers holding them are not, and need external
// synchronization for concurrent access.
package sortable
