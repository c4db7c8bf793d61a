package bookmarks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName_Valid(t *testing.T) {
	for _, s := range []string{
		"main",
		"release/1.0",
		"scratch/alice/feature-x",
		"heads/über", // non-ASCII is fine
	} {
		name, err := ParseName(s)
		require.NoError(t, err, s)
		assert.False(t, name.IsZero())
	}
}

func TestParseName_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"bad\nname",
		"bad\tname",
		"bad\x00name",
		string([]byte{0xff, 0xfe}), // not UTF-8
		strings.Repeat("x", MaxNameLen+1),
	} {
		_, err := ParseName(s)
		assert.Error(t, err, "%q should be rejected", s)
	}
}

func TestParseName_Normalizes(t *testing.T) {
	// Precomposed and combining forms of the same name are one bookmark.
	a, err := ParseName("caf\u00e9")
	require.NoError(t, err)
	b, err := ParseName("cafe\u0301")
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
}
