package bookmarks

import (
	"context"
	"fmt"

	"github.com/bookmarkd/bookmarkd/internal/config"
)

type principalKey struct{}

// WithPrincipal returns a context carrying the acting principal. The server
// or CLI layer sets this from its session before invoking an operation.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext extracts the acting principal, if any.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(principalKey{}).(string)
	return principal, ok && principal != ""
}

// Authorization selects which principal a movement operation is evaluated
// for: the ambient request context (the default), or an explicit override a
// caller established out of band.
//
// Authorization is evaluated exactly once per operation, before anything
// else: a caller must never observe classification or storage behavior for
// a bookmark it cannot touch.
type Authorization struct {
	explicit  bool
	principal string
}

// ContextAuthorization derives the principal from the request context.
func ContextAuthorization() Authorization {
	return Authorization{}
}

// ExplicitAuthorization uses a caller-supplied principal whose authority
// was already established.
func ExplicitAuthorization(principal string) Authorization {
	return Authorization{explicit: true, principal: principal}
}

// CheckAuthorized evaluates the ACL table for the bookmark. No side
// effects; a refusal is a PERMISSION_DENIED MovementError.
func (a Authorization) CheckAuthorized(ctx context.Context, attrs *config.BookmarkAttrs, name Name) error {
	principal := a.principal
	if !a.explicit {
		ambient, ok := PrincipalFromContext(ctx)
		if !ok {
			return NewPermissionDenied("", name)
		}
		principal = ambient
	}

	allowed, err := attrs.IsAllowed(principal, name.String())
	if err != nil {
		return fmt.Errorf("evaluate bookmark acl: %w", err)
	}
	if !allowed {
		return NewPermissionDenied(principal, name)
	}
	return nil
}
