package sortable

import "strings"

// String orders strings byte-wise, which for UTF-8 is code-point order.
type String string

var _ Sortable[String] = (*String)(nil)

func (s String) Equals(other String) bool {
	return string(s) == string(other)
}

func (s String) LessThan(other String) bool {
	return string(s) < string(other)
}

func (s String) Compare(other String) int {
	return strings.Compare(string(s), string(other))
}
