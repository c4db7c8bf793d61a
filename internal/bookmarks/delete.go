package bookmarks

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bookmarkd/bookmarkd/internal/changeset"
	"github.com/bookmarkd/bookmarkd/internal/config"
	"github.com/bookmarkd/bookmarkd/internal/store"
)

// DeleteOp atomically deletes a bookmark that points at an expected target.
// Scratch bookmarks cannot be deleted: they expire with their namespace and
// carry no log to record the deletion in.
type DeleteOp struct {
	bookmark    Name
	oldTarget   changeset.ID
	reason      UpdateReason
	auth        Authorization
	operationID string
	executed    bool
}

// NewDeleteOp builds a delete operation with default configuration.
func NewDeleteOp(bookmark Name, oldTarget changeset.ID, reason UpdateReason) *DeleteOp {
	return &DeleteOp{
		bookmark:    bookmark,
		oldTarget:   oldTarget,
		reason:      reason,
		auth:        ContextAuthorization(),
		operationID: uuid.NewString(),
	}
}

// WithExplicitAuthorization evaluates the ACL for a caller-supplied
// principal instead of the ambient request context.
func (op *DeleteOp) WithExplicitAuthorization(principal string) *DeleteOp {
	op.auth = ExplicitAuthorization(principal)
	return op
}

// WithOperationID overrides the generated audit correlation ID.
func (op *DeleteOp) WithOperationID(id string) *DeleteOp {
	op.operationID = id
	return op
}

// Run consumes the operation.
func (op *DeleteOp) Run(
	ctx context.Context,
	s *store.Store,
	infinitepush config.InfinitepushParams,
	attrs *config.BookmarkAttrs,
) error {
	if op.executed {
		return fmt.Errorf("delete of %q: operation already executed", op.bookmark)
	}
	op.executed = true

	if err := op.auth.CheckAuthorized(ctx, attrs, op.bookmark); err != nil {
		return err
	}

	kind, err := CheckKind(infinitepush, AnyKind, op.bookmark)
	if err != nil {
		return err
	}
	if kind == KindScratch {
		return NewInvalidOperation(op.bookmark, "scratch bookmarks cannot be deleted")
	}

	txn := s.Begin()
	if err := txn.StageDelete(
		op.bookmark.String(), op.oldTarget.String(),
		op.reason.String(), op.operationID,
	); err != nil {
		return err
	}

	applied, err := txn.Commit(ctx)
	if err != nil {
		return err
	}
	if !applied {
		return NewTransactionNotApplied(op.bookmark)
	}
	return nil
}
