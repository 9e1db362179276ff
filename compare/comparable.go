// Package compare provides utilities for comparing values.
package compare

import (
	"strings"
	"unicode"
)

// Comparable is a generic interface for types that can compare themselves for equality.
// Types implementing this interface must provide their own Equals method that determines
// whether two values are equal according to the type's semantics.
type Comparable[T any] interface {
	Equals(other T) bool
}

// Ordered is a Comparable that also defines a three-way total order.
// Compare must return a negative number when the receiver sorts before other,
// zero when the two are order-equivalent, and a positive number otherwise.
// Compare(x) == 0 must agree with Equals(x).
type Ordered[T any] interface {
	Comparable[T]

	Compare(other T) int
}

// CaseKey returns s with every rune mapped to the lower case of its upper
// case. The mapping is one rune to one rune, so 'ß' stays 'ß' rather than
// becoming "ss", and 'ς', 'σ' and 'Σ' share a key. Ordering keys with
// strings.Compare is an ordinal, case-insensitive comparison with no locale
// collation.
func CaseKey(s string) string {
	return strings.Map(foldRune, s)
}

func foldRune(r rune) rune {
	return unicode.ToLower(unicode.ToUpper(r))
}
