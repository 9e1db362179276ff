// Package names parses full person names and orders them by last name,
// then by given names, ignoring case.
package names

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amp-labs/name-sorter/compare"
	"github.com/amp-labs/name-sorter/sortable"
)

const (
	// MinTokens is the smallest accepted name: one given name and a last name.
	MinTokens = 2
	// MaxTokens allows up to three given names and a last name.
	MaxTokens = 4
)

// ErrInvalidFormat is returned when a line cannot be parsed into a name.
var ErrInvalidFormat = errors.New("invalid name format")

// PersonName is a parsed full name. The last whitespace-separated token is
// the last name; the tokens before it, joined by single spaces, are the
// given name. A PersonName is immutable.
//
// The zero value has empty names and only exists as the result of a failed
// Parse.
type PersonName struct {
	givenName string
	lastName  string

	// Case-insensitive keys of the names, computed once so that comparisons
	// do not allocate.
	givenKey string
	lastKey  string
}

// Compile-time check that PersonName can be stored in sorted containers.
var _ sortable.Sortable[PersonName] = PersonName{}

// Parse builds a PersonName from a line of text. The line is trimmed and
// split on runs of Unicode white space (unicode.IsSpace, so no-break and
// ideographic spaces count); it must yield between MinTokens and
// MaxTokens tokens. Any other input fails with an error wrapping
// ErrInvalidFormat. No character-set restrictions are applied.
func Parse(line string) (PersonName, error) {
	fields := strings.Fields(line)

	switch {
	case len(fields) == 0:
		return PersonName{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidFormat)
	case len(fields) < MinTokens:
		return PersonName{}, fmt.Errorf("%w: %q must contain at least a given name and a last name",
			ErrInvalidFormat, strings.TrimSpace(line))
	case len(fields) > MaxTokens:
		return PersonName{}, fmt.Errorf("%w: %q has %d parts, at most three given names and a last name are allowed",
			ErrInvalidFormat, strings.TrimSpace(line), len(fields))
	}

	last := fields[len(fields)-1]
	given := strings.Join(fields[:len(fields)-1], " ")

	return PersonName{
		givenName: given,
		lastName:  last,
		givenKey:  compare.CaseKey(given),
		lastKey:   compare.CaseKey(last),
	}, nil
}

// MustParse is like Parse but panics if the line is not a valid name.
// It is intended for tests and fixed tables.
func MustParse(line string) PersonName {
	name, err := Parse(line)
	if err != nil {
		panic(err)
	}

	return name
}

// GivenName returns the given names, space separated.
func (p PersonName) GivenName() string {
	return p.givenName
}

// LastName returns the last name.
func (p PersonName) LastName() string {
	return p.lastName
}

// String renders the name as it is written out: the given name, one space,
// and the last name. Runs of whitespace in the source are collapsed.
func (p PersonName) String() string {
	return p.givenName + " " + p.lastName
}

// Compare orders names by last name and then by given name. Both
// comparisons are ordinal over compare.CaseKey keys, so "smith" and "SMITH"
// are equal, "Straße" and "Strasse" are not, and no locale rules apply. The
// result is -1, 0 or 1.
func (p PersonName) Compare(other PersonName) int {
	if c := strings.Compare(p.lastKey, other.lastKey); c != 0 {
		return c
	}

	return strings.Compare(p.givenKey, other.givenKey)
}

// Equals reports whether both names are equal ignoring case.
func (p PersonName) Equals(other PersonName) bool {
	return p.Compare(other) == 0
}

// LessThan reports whether p sorts strictly before other.
func (p PersonName) LessThan(other PersonName) bool {
	return p.Compare(other) < 0
}

// Compare is the function form of PersonName.Compare, convenient for
// slices.SortFunc and friends.
func Compare(a, b PersonName) int {
	return a.Compare(b)
}
