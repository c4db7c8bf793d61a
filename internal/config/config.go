// Package config loads and compiles repository configuration for the
// bookmark movement core: the scratch namespace, the pushrebase policy, and
// the bookmark ACL table.
//
// Config files are YAML. Before decoding, the raw document is unified with
// an embedded CUE schema so that unknown fields, wrong types and missing
// required fields fail fast with positioned errors.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSrc string

// rawConfig mirrors the YAML document shape. It is decoded only after the
// document passed schema validation.
type rawConfig struct {
	Infinitepush struct {
		NamespacePattern string `yaml:"namespace_pattern"`
	} `yaml:"infinitepush"`
	Pushrebase struct {
		AssignGlobalrevs   bool `yaml:"assign_globalrevs"`
		PopulateGitMapping bool `yaml:"populate_git_mapping"`
	} `yaml:"pushrebase"`
	Bookmarks []BookmarkAttr `yaml:"bookmarks"`
}

// RepoConfig is the compiled repository configuration consumed by the
// movement core.
type RepoConfig struct {
	Infinitepush InfinitepushParams
	Pushrebase   PushrebaseParams
	Bookmarks    *BookmarkAttrs
}

// InfinitepushParams describes which bookmark names are eligible to be
// scratch (ephemeral, unlogged) pointers.
type InfinitepushParams struct {
	// NamespacePattern is the source pattern, kept for diagnostics.
	NamespacePattern string

	re *regexp.Regexp
}

// NewInfinitepushParams compiles a scratch namespace pattern. An empty
// pattern yields params that match nothing (no scratch namespace).
func NewInfinitepushParams(pattern string) (InfinitepushParams, error) {
	p := InfinitepushParams{NamespacePattern: pattern}
	if pattern == "" {
		return p, nil
	}
	re, err := regexp.Compile(anchored(pattern))
	if err != nil {
		return InfinitepushParams{}, fmt.Errorf("infinitepush namespace pattern: %w", err)
	}
	p.re = re
	return p, nil
}

// Matches reports whether a bookmark name falls inside the scratch
// namespace.
func (p InfinitepushParams) Matches(name string) bool {
	return p.re != nil && p.re.MatchString(name)
}

// PushrebaseParams carries the repository's pushrebase policy flags.
type PushrebaseParams struct {
	// AssignGlobalrevs is true when landing to this repository allocates
	// global revision numbers. Incompatible with client-driven git mapping
	// population.
	AssignGlobalrevs bool

	// PopulateGitMapping is true when public bookmark moves should derive
	// git mapping entries from newly introduced changesets.
	PopulateGitMapping bool
}

// Load reads, validates and compiles a repository config file.
func Load(path string) (*RepoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, data)
}

// Parse validates a YAML document against the embedded CUE schema, then
// decodes and compiles it. The filename is used only for error positions.
func Parse(filename string, data []byte) (*RepoConfig, error) {
	if err := vetSchema(filename, data); err != nil {
		return nil, err
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return compile(raw)
}

// Default returns the compiled zero configuration: no scratch namespace,
// no globalrevs, no git mapping, empty ACL table (everything allowed).
func Default() *RepoConfig {
	cfg, err := compile(rawConfig{})
	if err != nil {
		// The zero config compiles by construction.
		panic(err)
	}
	return cfg
}

func compile(raw rawConfig) (*RepoConfig, error) {
	infinitepush, err := NewInfinitepushParams(raw.Infinitepush.NamespacePattern)
	if err != nil {
		return nil, err
	}

	attrs, err := NewBookmarkAttrs(raw.Bookmarks)
	if err != nil {
		return nil, err
	}

	return &RepoConfig{
		Infinitepush: infinitepush,
		Pushrebase: PushrebaseParams{
			AssignGlobalrevs:   raw.Pushrebase.AssignGlobalrevs,
			PopulateGitMapping: raw.Pushrebase.PopulateGitMapping,
		},
		Bookmarks: attrs,
	}, nil
}

// vetSchema unifies the YAML document with #Config from schema.cue.
func vetSchema(filename string, data []byte) error {
	cuectx := cuecontext.New()

	schema := cuectx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	doc := cuectx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("config does not match schema:\n%s", cueerrors.Details(err, nil))
	}
	return nil
}

// anchored wraps a pattern so it must match the whole name. Patterns in
// config are written unanchored.
func anchored(pattern string) string {
	return "^(?:" + pattern + ")$"
}
