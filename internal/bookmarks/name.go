package bookmarks

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxNameLen bounds bookmark name length in bytes, after normalization.
const MaxNameLen = 512

// Name is a validated bookmark name: non-empty UTF-8, NFC-normalized, free
// of control characters. A Name is immutable once constructed and is never
// re-derived inside an operation.
type Name struct {
	s string
}

// ParseName validates and normalizes a bookmark name.
func ParseName(s string) (Name, error) {
	if s == "" {
		return Name{}, fmt.Errorf("bookmark name must not be empty")
	}
	if !utf8.ValidString(s) {
		return Name{}, fmt.Errorf("bookmark name is not valid UTF-8")
	}

	n := norm.NFC.String(s)
	if len(n) > MaxNameLen {
		return Name{}, fmt.Errorf("bookmark name exceeds %d bytes", MaxNameLen)
	}
	for _, r := range n {
		if unicode.IsControl(r) {
			return Name{}, fmt.Errorf("bookmark name contains control character %q", r)
		}
	}

	return Name{s: n}, nil
}

// MustParseName is like ParseName but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParseName(s string) Name {
	name, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return name
}

func (n Name) String() string { return n.s }

// IsZero reports whether the name is the zero value (never produced by
// ParseName).
func (n Name) IsZero() bool { return n.s == "" }
