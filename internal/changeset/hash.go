package changeset

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Domain prefix for content-addressed identity. The version suffix enables
// future algorithm migration without colliding with existing IDs.
const domainChangeset = "bookmarkd/changeset/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) ID {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return ID(hex.EncodeToString(h.Sum(nil)))
}

// ComputeID derives the content-addressed ID for a changeset from its
// parents, author, message and extras. The encoding is canonical:
// strings are NFC-normalized and length-prefixed, extras are sorted by key,
// so the same logical content always produces the same ID.
//
// The Changeset.ID field itself is excluded from the hash input.
func ComputeID(cs Changeset) ID {
	var buf []byte

	buf = appendUvarint(buf, uint64(len(cs.Parents)))
	for _, p := range cs.Parents {
		buf = appendString(buf, string(p))
	}
	buf = appendString(buf, cs.Author)
	buf = appendString(buf, cs.Message)

	keys := make([]string, 0, len(cs.Extra))
	for k := range cs.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	buf = appendUvarint(buf, uint64(len(keys)))
	for _, k := range keys {
		buf = appendString(buf, k)
		buf = appendString(buf, cs.Extra[k])
	}

	return hashWithDomain(domainChangeset, buf)
}

// New builds a changeset and stamps its content-addressed ID.
func New(parents []ID, author, message string, extra map[string]string) Changeset {
	cs := Changeset{
		Parents: parents,
		Author:  author,
		Message: message,
		Extra:   extra,
	}
	cs.ID = ComputeID(cs)
	return cs
}

func appendString(buf []byte, s string) []byte {
	n := norm.NFC.String(s)
	buf = appendUvarint(buf, uint64(len(n)))
	return append(buf, n...)
}

func appendUvarint(buf []byte, v uint64) []byte {
	return binary.AppendUvarint(buf, v)
}
