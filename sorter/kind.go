package sorter

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects how names are put in order.
type Kind string

const (
	// BinaryTree inserts every name into a self-balancing search tree and
	// reads them back in order. It is the default.
	BinaryTree Kind = "binaryTree"

	// Collection appends names to a slice and sorts it once before writing.
	Collection Kind = "collection"
)

// ErrUnknownStrategy is returned for a strategy name that is not a Kind.
var ErrUnknownStrategy = errors.New("unknown sorting strategy")

// Kinds lists the supported strategies, default first.
func Kinds() []Kind {
	return []Kind{BinaryTree, Collection}
}

// ParseKind matches s against the supported strategies, ignoring case and
// surrounding space. An empty s selects BinaryTree.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return BinaryTree, nil
	}

	for _, k := range Kinds() {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}

	return "", fmt.Errorf("%w: %q (want one of %v)", ErrUnknownStrategy, s, Kinds())
}

func (k Kind) String() string {
	return string(k)
}
