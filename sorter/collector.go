package sorter

import (
	"slices"

	"github.com/amp-labs/name-sorter/avl"
	"github.com/amp-labs/name-sorter/names"
)

// Collector accumulates parsed names and hands them back in order.
type Collector interface {
	Add(name names.PersonName)
	Sorted() []names.PersonName
	Len() int
}

// NewCollector returns the Collector implementing kind.
func NewCollector(kind Kind) (Collector, error) {
	switch kind {
	case BinaryTree:
		return &treeCollector{tree: avl.New[names.PersonName]()}, nil
	case Collection:
		return &sliceCollector{}, nil
	default:
		return nil, ErrUnknownStrategy
	}
}

// treeCollector keeps names ordered as they arrive.
type treeCollector struct {
	tree *avl.Tree[names.PersonName]
}

func (c *treeCollector) Add(name names.PersonName) {
	c.tree.Insert(name)
}

func (c *treeCollector) Sorted() []names.PersonName {
	return c.tree.TraverseInOrder()
}

func (c *treeCollector) Len() int {
	return c.tree.Len()
}

// sliceCollector defers ordering to Sorted. The sort is stable so equal
// names keep their input order, as they do in the tree.
type sliceCollector struct {
	items []names.PersonName
}

func (c *sliceCollector) Add(name names.PersonName) {
	c.items = append(c.items, name)
}

func (c *sliceCollector) Sorted() []names.PersonName {
	out := slices.Clone(c.items)
	if out == nil {
		out = []names.PersonName{}
	}

	slices.SortStableFunc(out, names.Compare)

	return out
}

func (c *sliceCollector) Len() int {
	return len(c.items)
}
