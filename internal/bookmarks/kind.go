package bookmarks

import (
	"github.com/bookmarkd/bookmarkd/internal/config"
	"github.com/bookmarkd/bookmarkd/internal/store"
)

// Kind classifies a bookmark as scratch (ephemeral, unlogged, exempt from
// git mapping and global numbering) or public (durable, logged, subject to
// the full guarantees). The kind of a bookmark is a pure function of its
// name and the repository's infinitepush configuration.
type Kind int

const (
	KindScratch Kind = iota
	KindPublic
)

func (k Kind) String() string {
	switch k {
	case KindScratch:
		return "scratch"
	case KindPublic:
		return "public"
	default:
		return "unknown"
	}
}

// StoreKind returns the store-level kind column value.
func (k Kind) StoreKind() string {
	if k == KindScratch {
		return store.KindScratch
	}
	return store.KindPublic
}

// KindRestriction is the caller's declared expectation about a bookmark's
// classification. Set once per operation and consulted, never silently
// overridden.
type KindRestriction int

const (
	// AnyKind accepts whatever the classifier resolves.
	AnyKind KindRestriction = iota

	// OnlyScratch requires the bookmark to classify as scratch.
	OnlyScratch

	// OnlyPublic requires the bookmark to classify as public.
	OnlyPublic
)

func (r KindRestriction) String() string {
	switch r {
	case AnyKind:
		return "any"
	case OnlyScratch:
		return "only-scratch"
	case OnlyPublic:
		return "only-public"
	default:
		return "unknown"
	}
}

// CheckKind classifies a bookmark name and enforces the caller's declared
// restriction. A name outside the scratch namespace defaults to public.
//
// Runs after authorization and before any transaction is staged: the kind
// decides the storage namespace and which downstream invariants apply.
func CheckKind(infinitepush config.InfinitepushParams, restriction KindRestriction, name Name) (Kind, error) {
	kind := KindPublic
	if infinitepush.Matches(name.String()) {
		kind = KindScratch
	}

	switch restriction {
	case AnyKind:
		return kind, nil
	case OnlyScratch:
		if kind != KindScratch {
			return kind, NewKindMismatch(name, KindScratch, kind)
		}
		return kind, nil
	case OnlyPublic:
		if kind != KindPublic {
			return kind, NewKindMismatch(name, KindPublic, kind)
		}
		return kind, nil
	default:
		return kind, NewKindMismatch(name, KindPublic, kind)
	}
}
