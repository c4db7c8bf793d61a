package changeset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeIDDeterminism(t *testing.T) {
	cs := Changeset{
		Parents: []ID{MustParseID(strings.Repeat("ab", 32))},
		Author:  "Alice <alice@example.com>",
		Message: "add feature",
		Extra:   map[string]string{"git-sha1": "deadbeef"},
	}

	id1 := ComputeID(cs)
	id2 := ComputeID(cs)

	assert.Equal(t, id1, id2, "ComputeID must be deterministic")
	assert.Len(t, string(id1), 64, "SHA-256 hex is 64 characters")
}

func TestComputeIDChangesWithInput(t *testing.T) {
	base := Changeset{Author: "Alice", Message: "one"}

	id1 := ComputeID(base)

	other := base
	other.Message = "two"
	id2 := ComputeID(other)

	withExtra := base
	withExtra.Extra = map[string]string{"git-sha1": "deadbeef"}
	id3 := ComputeID(withExtra)

	assert.NotEqual(t, id1, id2, "different message should produce a different ID")
	assert.NotEqual(t, id1, id3, "extras should be part of the ID")
}

func TestComputeIDIgnoresExtraOrder(t *testing.T) {
	// Map iteration order must not leak into the ID.
	a := Changeset{Author: "A", Extra: map[string]string{"k1": "v1", "k2": "v2", "k3": "v3"}}
	b := Changeset{Author: "A", Extra: map[string]string{"k3": "v3", "k1": "v1", "k2": "v2"}}

	assert.Equal(t, ComputeID(a), ComputeID(b))
}

func TestComputeIDNormalizesUnicode(t *testing.T) {
	// U+00E9 (precomposed) vs "e" + U+0301 (combining) must hash identically.
	composed := Changeset{Author: "Ren\u00e9", Message: "m"}
	decomposed := Changeset{Author: "Rene\u0301", Message: "m"}

	assert.Equal(t, ComputeID(composed), ComputeID(decomposed))
}

func TestNewStampsID(t *testing.T) {
	cs := New(nil, "Alice", "initial", nil)
	assert.Equal(t, ComputeID(cs), cs.ID)
}

func TestParseID(t *testing.T) {
	valid := strings.Repeat("0123456789abcdef", 4)
	id, err := ParseID(valid)
	require.NoError(t, err)
	assert.Equal(t, valid, id.String())

	for _, bad := range []string{
		"",
		"abc",
		strings.Repeat("g", 64),                // non-hex
		strings.Repeat("AB", 32),               // uppercase
		strings.Repeat("0123456789abcdef", 4) + "0", // too long
	} {
		_, err := ParseID(bad)
		assert.Error(t, err, "ParseID(%q) should fail", bad)
	}
}

func TestIDMapMergeLastWriteWins(t *testing.T) {
	cs1 := New(nil, "Alice", "v1", nil)
	cs2 := New(nil, "Alice", "v2", nil)

	m := IDMap{cs1.ID: cs1}

	// Overlapping key: the later value replaces the earlier one.
	m.Merge(IDMap{cs1.ID: cs2, cs2.ID: cs2})

	require.Len(t, m, 2)
	assert.Equal(t, cs2, m[cs1.ID])
	assert.Equal(t, cs2, m[cs2.ID])
}

func TestIDMapMergeIdempotent(t *testing.T) {
	cs := New(nil, "Alice", "v1", nil)
	other := IDMap{cs.ID: cs}

	m := IDMap{}
	m.Merge(other)
	m.Merge(other)

	assert.Len(t, m, 1)
}

func TestIDMapClone(t *testing.T) {
	cs := New(nil, "Alice", "v1", nil)
	m := IDMap{cs.ID: cs}

	clone := m.Clone()
	clone.Merge(IDMap{New(nil, "Bob", "v2", nil).ID: New(nil, "Bob", "v2", nil)})

	assert.Len(t, m, 1, "mutating a clone must not affect the original")
	assert.Len(t, clone, 2)
}
