package bookmarks

import (
	"context"
	"fmt"
	"sort"

	"github.com/bookmarkd/bookmarkd/internal/changeset"
	"github.com/bookmarkd/bookmarkd/internal/config"
	"github.com/bookmarkd/bookmarkd/internal/store"
)

// PopulateGitMappingHook prepares the deferred git mapping write for a
// public bookmark move to target. Returns nil when there is nothing to
// derive:
//   - git mapping population is disabled for the repository,
//   - the target is already mapped,
//   - no reachable new changeset carries a git hash.
//
// Derivation walks parent edges from the target through the new-changesets
// set. Changesets outside the set are already durable and assumed mapped,
// so the walk stops there. New changesets without a git-sha1 extra are
// skipped; a repository may hold a mix of converted and native commits.
//
// The returned hook performs no writes itself; the transaction invokes it
// iff the pointer write applies.
func PopulateGitMappingHook(
	ctx context.Context,
	s *store.Store,
	pushrebase config.PushrebaseParams,
	target changeset.ID,
	newChangesets changeset.IDMap,
) (store.TxnHook, error) {
	if !pushrebase.PopulateGitMapping {
		return nil, nil
	}

	mapped, err := s.HasGitMapping(ctx, target)
	if err != nil {
		return nil, err
	}
	if mapped {
		return nil, nil
	}

	entries, err := deriveGitMappingEntries(ctx, s, target, newChangesets)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	return store.GitMappingHook(entries), nil
}

// deriveGitMappingEntries collects mapping rows for changesets newly
// reachable from target. The target itself may live outside the
// new-changesets set (e.g. a bookmark created onto an existing commit); it
// is then fetched from the store.
func deriveGitMappingEntries(
	ctx context.Context,
	s *store.Store,
	target changeset.ID,
	newChangesets changeset.IDMap,
) ([]store.GitMappingEntry, error) {
	root, ok := newChangesets[target]
	if !ok {
		fetched, err := s.GetChangeset(ctx, target)
		if err != nil {
			return nil, err
		}
		if fetched == nil {
			return nil, fmt.Errorf("target changeset %s is neither new nor stored", target)
		}
		root = *fetched
	}

	var entries []store.GitMappingEntry
	seen := map[changeset.ID]bool{root.ID: true}
	queue := []changeset.Changeset{root}

	for len(queue) > 0 {
		cs := queue[0]
		queue = queue[1:]

		if sha, ok := cs.GitSHA1(); ok {
			entries = append(entries, store.GitMappingEntry{
				ChangesetID: cs.ID.String(),
				GitSHA1:     sha,
			})
		}

		for _, parent := range cs.Parents {
			if seen[parent] {
				continue
			}
			seen[parent] = true
			// Parents outside the new set are durable already; their
			// mappings were written when they landed.
			if p, ok := newChangesets[parent]; ok {
				queue = append(queue, p)
			}
		}
	}

	// Deterministic write order regardless of map iteration.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ChangesetID < entries[j].ChangesetID
	})
	return entries, nil
}
