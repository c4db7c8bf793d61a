package changeset

import (
	"fmt"
	"regexp"
)

// ID is the content-addressed identifier of a changeset: the lowercase hex
// encoding of a SHA-256 digest. IDs are stable across servers and replays
// given the same changeset content.
type ID string

var idPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ParseID validates a string as a changeset ID.
// Returns an error for anything that is not 64 lowercase hex characters.
func ParseID(s string) (ID, error) {
	if !idPattern.MatchString(s) {
		return "", fmt.Errorf("invalid changeset id %q: want 64 lowercase hex characters", s)
	}
	return ID(s), nil
}

// MustParseID is like ParseID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string { return string(id) }

// Changeset is a committed unit of history. Changesets are immutable and
// keyed by their own content-addressed ID.
type Changeset struct {
	// ID is the content-addressed identifier. When constructing a changeset
	// by hand, compute it with ComputeID over the remaining fields.
	ID ID

	// Parents lists the parent changeset IDs, in order. Empty for roots.
	Parents []ID

	// Author is the recorded author string (name and email, free-form).
	Author string

	// Message is the commit message.
	Message string

	// Extra holds auxiliary key/value metadata carried by the changeset,
	// such as identifiers assigned by an external system the repository was
	// converted from.
	Extra map[string]string
}

// GitSHA1ExtraKey is the Extra key under which a changeset records the git
// commit hash it corresponds to, when one exists.
const GitSHA1ExtraKey = "git-sha1"

// GitSHA1 returns the git hash recorded in the changeset's extras, if any.
func (cs *Changeset) GitSHA1() (string, bool) {
	sha, ok := cs.Extra[GitSHA1ExtraKey]
	return sha, ok
}

// IDMap is a set of changesets keyed by ID, used to describe changesets
// introduced in the same logical operation before they are durable.
type IDMap map[ID]Changeset

// Merge folds other into m, last write wins per key. Merging is idempotent:
// merging the same map twice is equivalent to merging it once, and duplicate
// keys are never an error.
func (m IDMap) Merge(other IDMap) {
	for id, cs := range other {
		m[id] = cs
	}
}

// Clone returns a shallow copy of the map. Changesets are immutable, so a
// shallow copy is sufficient for isolation between operations.
func (m IDMap) Clone() IDMap {
	out := make(IDMap, len(m))
	for id, cs := range m {
		out[id] = cs
	}
	return out
}
