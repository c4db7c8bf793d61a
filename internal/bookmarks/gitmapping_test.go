package bookmarks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmarkd/bookmarkd/internal/changeset"
	"github.com/bookmarkd/bookmarkd/internal/config"
)

func TestPopulateGitMappingHook_DisabledReturnsNil(t *testing.T) {
	env := newTestEnv(t)

	target := changeset.New(nil, "A", "m", map[string]string{"git-sha1": "aaaa"})
	hook, err := PopulateGitMappingHook(
		context.Background(), env.store,
		config.PushrebaseParams{PopulateGitMapping: false},
		target.ID, changeset.IDMap{target.ID: target},
	)
	require.NoError(t, err)
	assert.Nil(t, hook)
}

func TestPopulateGitMappingHook_TargetAlreadyMapped(t *testing.T) {
	env := newTestEnv(t)
	ctx := ctxAs("alice")

	target := changeset.New(nil, "A", "m", map[string]string{"git-sha1": "aaaa"})
	require.NoError(t, env.runCreate(ctx,
		NewCreateOp(MustParseName("main"), target.ID, ReasonPush).
			WithNewChangesets(changeset.IDMap{target.ID: target})))

	mapped, err := env.store.HasGitMapping(ctx, target.ID)
	require.NoError(t, err)
	require.True(t, mapped)

	hook, err := PopulateGitMappingHook(
		ctx, env.store, env.pushrebase, target.ID, changeset.IDMap{target.ID: target})
	require.NoError(t, err)
	assert.Nil(t, hook, "an already-mapped target needs no hook")
}

func TestPopulateGitMappingHook_NothingDerivable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Stored target without a git-sha1 extra, no new changesets.
	target := changeset.New(nil, "A", "native commit", nil)
	env.seedChangeset(t, target)

	hook, err := PopulateGitMappingHook(ctx, env.store, env.pushrebase, target.ID, changeset.IDMap{})
	require.NoError(t, err)
	assert.Nil(t, hook)
}

func TestPopulateGitMappingHook_UnknownTargetIsAnError(t *testing.T) {
	env := newTestEnv(t)

	target := changeset.New(nil, "A", "m", nil)
	_, err := PopulateGitMappingHook(
		context.Background(), env.store, env.pushrebase, target.ID, changeset.IDMap{})
	require.Error(t, err)
}

func TestPopulateGitMappingHook_SkipsUnmappedAncestorsOutsideSet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// grandparent (stored) <- parent (new, no sha) <- target (new, sha).
	grandparent := changeset.New(nil, "A", "gp", map[string]string{"git-sha1": "aaaa"})
	env.seedChangeset(t, grandparent)
	parent := changeset.New([]changeset.ID{grandparent.ID}, "A", "p", nil)
	target := changeset.New([]changeset.ID{parent.ID}, "A", "t", map[string]string{"git-sha1": "cccc"})

	news := changeset.IDMap{parent.ID: parent, target.ID: target}

	hook, err := PopulateGitMappingHook(ctx, env.store, env.pushrebase, target.ID, news)
	require.NoError(t, err)
	require.NotNil(t, hook, "target carries a sha, so there is something to write")

	// Execute the hook through a real transaction to observe its effect.
	txn := env.store.Begin()
	require.NoError(t, txn.StageCreatePublic("main", target.ID.String(), "push", "op-1", nil))
	applied, err := txn.CommitWithHook(ctx, hook)
	require.NoError(t, err)
	require.True(t, applied)

	sha, err := env.store.GetGitMapping(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "cccc", sha)

	mapped, err := env.store.HasGitMapping(ctx, parent.ID)
	require.NoError(t, err)
	assert.False(t, mapped, "new changesets without a sha are skipped")

	mapped, err = env.store.HasGitMapping(ctx, grandparent.ID)
	require.NoError(t, err)
	assert.False(t, mapped, "durable ancestors are not re-derived")
}
