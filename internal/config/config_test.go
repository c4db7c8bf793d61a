package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
infinitepush:
  namespace_pattern: "scratch/.+"
pushrebase:
  assign_globalrevs: false
  populate_git_mapping: true
bookmarks:
  - name_pattern: "main"
    allowed_users: ["alice", "bob"]
  - name_pattern: "release/.*"
    allowed_expr: 'principal == "releasebot"'
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse("repo.yaml", []byte(validYAML))
	require.NoError(t, err)

	assert.True(t, cfg.Infinitepush.Matches("scratch/alice/feature"))
	assert.False(t, cfg.Infinitepush.Matches("main"))
	assert.False(t, cfg.Pushrebase.AssignGlobalrevs)
	assert.True(t, cfg.Pushrebase.PopulateGitMapping)

	allowed, err := cfg.Bookmarks.IsAllowed("alice", "main")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse("repo.yaml", []byte(`
pushrebase:
  assign_globalrevz: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestParse_WrongTypeRejected(t *testing.T) {
	_, err := Parse("repo.yaml", []byte(`
infinitepush:
  namespace_pattern: 42
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestParse_MissingNamePatternRejected(t *testing.T) {
	_, err := Parse("repo.yaml", []byte(`
bookmarks:
  - allowed_users: ["alice"]
`))
	require.Error(t, err)
}

func TestParse_BadRegexRejected(t *testing.T) {
	_, err := Parse("repo.yaml", []byte(`
infinitepush:
  namespace_pattern: "scratch/(.+"
`))
	require.Error(t, err)
}

func TestParse_BadCELRejected(t *testing.T) {
	_, err := Parse("repo.yaml", []byte(`
bookmarks:
  - name_pattern: "main"
    allowed_expr: "principal =="
`))
	require.Error(t, err)
}

func TestParse_NonBoolCELRejected(t *testing.T) {
	_, err := Parse("repo.yaml", []byte(`
bookmarks:
  - name_pattern: "main"
    allowed_expr: "principal"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bool")
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Infinitepush.Matches("scratch/x"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.Infinitepush.Matches("scratch/x"))
	assert.False(t, cfg.Pushrebase.AssignGlobalrevs)

	allowed, err := cfg.Bookmarks.IsAllowed("anyone", "main")
	require.NoError(t, err)
	assert.True(t, allowed, "empty ACL table restricts nothing")
}

func TestInfinitepushParams_Anchored(t *testing.T) {
	p, err := NewInfinitepushParams("scratch/.+")
	require.NoError(t, err)

	assert.True(t, p.Matches("scratch/alice"))
	assert.False(t, p.Matches("not-scratch/alice"), "pattern must match the whole name")
	assert.False(t, p.Matches("xscratch/alice"))
}

func TestInfinitepushParams_EmptyMatchesNothing(t *testing.T) {
	p, err := NewInfinitepushParams("")
	require.NoError(t, err)
	assert.False(t, p.Matches("anything"))
}

func TestBookmarkAttrs_UserList(t *testing.T) {
	attrs, err := NewBookmarkAttrs([]BookmarkAttr{
		{NamePattern: "main", AllowedUsers: []string{"alice"}},
	})
	require.NoError(t, err)

	allowed, err := attrs.IsAllowed("alice", "main")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = attrs.IsAllowed("mallory", "main")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Names no entry matches are unrestricted.
	allowed, err = attrs.IsAllowed("mallory", "other")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestBookmarkAttrs_CELExpression(t *testing.T) {
	attrs, err := NewBookmarkAttrs([]BookmarkAttr{
		{NamePattern: "release/.*", AllowedExpr: `principal.startsWith("release") || bookmark == "release/hotfix"`},
	})
	require.NoError(t, err)

	allowed, err := attrs.IsAllowed("releasebot", "release/1.0")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = attrs.IsAllowed("alice", "release/1.0")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = attrs.IsAllowed("alice", "release/hotfix")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestBookmarkAttrs_OpenEntryAdmitsEveryone(t *testing.T) {
	attrs, err := NewBookmarkAttrs([]BookmarkAttr{
		{NamePattern: "experimental/.*"},
	})
	require.NoError(t, err)

	allowed, err := attrs.IsAllowed("anyone", "experimental/x")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestBookmarkAttrs_FirstAdmittingEntryWins(t *testing.T) {
	attrs, err := NewBookmarkAttrs([]BookmarkAttr{
		{NamePattern: "main", AllowedUsers: []string{"alice"}},
		{NamePattern: ".*", AllowedUsers: []string{"admin"}},
	})
	require.NoError(t, err)

	// alice via the first entry, admin via the second.
	for _, principal := range []string{"alice", "admin"} {
		allowed, err := attrs.IsAllowed(principal, "main")
		require.NoError(t, err)
		assert.True(t, allowed, principal)
	}

	allowed, err := attrs.IsAllowed("mallory", "main")
	require.NoError(t, err)
	assert.False(t, allowed)
}
