// Package sortable provides the ordering capability required by sorted containers,
// plus wrapper types that give primitive types that capability.
package sortable

import (
	"github.com/amp-labs/name-sorter/compare"
)

// Sortable is implemented by values that can be kept in a sorted container.
// Compare defines the total order; LessThan(x) must agree with Compare(x) < 0
// and Equals(x) with Compare(x) == 0.
type Sortable[T any] interface {
	compare.Ordered[T]

	LessThan(other T) bool
}
