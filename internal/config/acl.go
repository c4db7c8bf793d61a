package config

import (
	"fmt"
	"regexp"

	"github.com/google/cel-go/cel"
)

// BookmarkAttr is one entry of the bookmark ACL table as written in config.
type BookmarkAttr struct {
	// NamePattern scopes the entry to bookmark names matching this
	// anchored regular expression.
	NamePattern string `yaml:"name_pattern"`

	// AllowedUsers lists principals admitted by this entry.
	AllowedUsers []string `yaml:"allowed_users"`

	// AllowedExpr is a CEL expression over {principal, bookmark} that must
	// evaluate to a bool. Evaluated in addition to AllowedUsers; either
	// admitting the principal is sufficient.
	AllowedExpr string `yaml:"allowed_expr"`
}

// compiledAttr is a BookmarkAttr with its pattern and expression compiled.
type compiledAttr struct {
	src     BookmarkAttr
	re      *regexp.Regexp
	allowed map[string]bool
	prg     cel.Program
}

// BookmarkAttrs is the compiled bookmark ACL table.
//
// Semantics: entries restrict only the names they match. A principal may
// modify a bookmark unless some entry matches the name and no matching
// entry admits the principal. An entry with neither AllowedUsers nor
// AllowedExpr admits everyone within its pattern.
type BookmarkAttrs struct {
	entries []compiledAttr
}

// NewBookmarkAttrs compiles an ACL table. Patterns and CEL expressions are
// compiled once here, not per check.
func NewBookmarkAttrs(attrs []BookmarkAttr) (*BookmarkAttrs, error) {
	env, err := aclEnv()
	if err != nil {
		return nil, err
	}

	compiled := make([]compiledAttr, 0, len(attrs))
	for i, attr := range attrs {
		if attr.NamePattern == "" {
			return nil, fmt.Errorf("bookmark acl entry %d: empty name_pattern", i)
		}
		re, err := regexp.Compile(anchored(attr.NamePattern))
		if err != nil {
			return nil, fmt.Errorf("bookmark acl entry %d: %w", i, err)
		}

		entry := compiledAttr{src: attr, re: re}

		if len(attr.AllowedUsers) > 0 {
			entry.allowed = make(map[string]bool, len(attr.AllowedUsers))
			for _, u := range attr.AllowedUsers {
				entry.allowed[u] = true
			}
		}

		if attr.AllowedExpr != "" {
			prg, err := compileACLExpr(env, attr.AllowedExpr)
			if err != nil {
				return nil, fmt.Errorf("bookmark acl entry %d: %w", i, err)
			}
			entry.prg = prg
		}

		compiled = append(compiled, entry)
	}

	return &BookmarkAttrs{entries: compiled}, nil
}

// IsAllowed reports whether a principal may modify the named bookmark.
// Evaluation order is the config order; the first matching entry that admits
// the principal wins. Expression evaluation errors are surfaced, never
// treated as a grant.
func (a *BookmarkAttrs) IsAllowed(principal, name string) (bool, error) {
	matched := false
	for _, entry := range a.entries {
		if !entry.re.MatchString(name) {
			continue
		}
		matched = true

		if entry.allowed == nil && entry.prg == nil {
			return true, nil
		}
		if entry.allowed[principal] {
			return true, nil
		}
		if entry.prg != nil {
			ok, err := evalACLExpr(entry.prg, principal, name)
			if err != nil {
				return false, fmt.Errorf("bookmark acl expression for %q: %w", name, err)
			}
			if ok {
				return true, nil
			}
		}
	}

	// No entry names this bookmark: unrestricted.
	if !matched {
		return true, nil
	}
	return false, nil
}

// aclEnv builds the CEL environment shared by all ACL expressions.
func aclEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("principal", cel.StringType),
		cel.Variable("bookmark", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("bookmark acl env: %w", err)
	}
	return env, nil
}

func compileACLExpr(env *cel.Env, expr string) (cel.Program, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression %q must evaluate to bool, got %s", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	return prg, nil
}

func evalACLExpr(prg cel.Program, principal, name string) (bool, error) {
	out, _, err := prg.Eval(map[string]any{
		"principal": principal,
		"bookmark":  name,
	})
	if err != nil {
		return false, err
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("expression yielded %T, want bool", out.Value())
	}
	return ok, nil
}
