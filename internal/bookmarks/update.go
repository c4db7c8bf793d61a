package bookmarks

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bookmarkd/bookmarkd/internal/changeset"
	"github.com/bookmarkd/bookmarkd/internal/config"
	"github.com/bookmarkd/bookmarkd/internal/store"
)

// UpdateOp atomically moves an existing bookmark from an expected old
// target to a new one (compare-and-set). Same lifecycle and pipeline as
// CreateOp; the commit does not apply when the bookmark no longer points at
// the expected old target.
type UpdateOp struct {
	bookmark      Name
	oldTarget     changeset.ID
	newTarget     changeset.ID
	reason        UpdateReason
	auth          Authorization
	restriction   KindRestriction
	newChangesets changeset.IDMap
	replayData    *string
	operationID   string
	executed      bool
}

// NewUpdateOp builds an update operation with default configuration.
func NewUpdateOp(bookmark Name, oldTarget, newTarget changeset.ID, reason UpdateReason) *UpdateOp {
	return &UpdateOp{
		bookmark:      bookmark,
		oldTarget:     oldTarget,
		newTarget:     newTarget,
		reason:        reason,
		auth:          ContextAuthorization(),
		restriction:   AnyKind,
		newChangesets: changeset.IDMap{},
		operationID:   uuid.NewString(),
	}
}

// OnlyIfScratch declares that the bookmark must classify as scratch.
func (op *UpdateOp) OnlyIfScratch() *UpdateOp {
	op.restriction = OnlyScratch
	return op
}

// OnlyIfPublic declares that the bookmark must classify as public.
func (op *UpdateOp) OnlyIfPublic() *UpdateOp {
	op.restriction = OnlyPublic
	return op
}

// WithExplicitAuthorization evaluates the ACL for a caller-supplied
// principal instead of the ambient request context.
func (op *UpdateOp) WithExplicitAuthorization(principal string) *UpdateOp {
	op.auth = ExplicitAuthorization(principal)
	return op
}

// WithReplayData attaches opaque out-of-band replication metadata.
func (op *UpdateOp) WithReplayData(data string) *UpdateOp {
	op.replayData = &data
	return op
}

// WithNewChangesets includes changesets added in the same logical
// operation. Idempotent merge, last write wins per key.
func (op *UpdateOp) WithNewChangesets(changesets changeset.IDMap) *UpdateOp {
	op.newChangesets.Merge(changesets)
	return op
}

// WithOperationID overrides the generated audit correlation ID.
func (op *UpdateOp) WithOperationID(id string) *UpdateOp {
	op.operationID = id
	return op
}

// Run consumes the operation.
func (op *UpdateOp) Run(
	ctx context.Context,
	s *store.Store,
	infinitepush config.InfinitepushParams,
	pushrebase config.PushrebaseParams,
	attrs *config.BookmarkAttrs,
) error {
	if op.executed {
		return fmt.Errorf("update of %q: operation already executed", op.bookmark)
	}
	op.executed = true

	if err := op.auth.CheckAuthorized(ctx, attrs, op.bookmark); err != nil {
		return err
	}

	kind, err := CheckKind(infinitepush, op.restriction, op.bookmark)
	if err != nil {
		return err
	}

	txn := s.Begin()
	var hook store.TxnHook

	if kind == KindScratch {
		if err := txn.StageUpdateScratch(
			op.bookmark.String(), op.oldTarget.String(), op.newTarget.String(),
		); err != nil {
			return err
		}
	} else {
		if err := RequireGlobalrevsDisabled(pushrebase); err != nil {
			return err
		}
		hook, err = PopulateGitMappingHook(ctx, s, pushrebase, op.newTarget, op.newChangesets)
		if err != nil {
			return err
		}
		if err := txn.StageUpdate(
			op.bookmark.String(), op.oldTarget.String(), op.newTarget.String(),
			op.reason.String(), op.operationID, op.replayData,
		); err != nil {
			return err
		}
	}

	applied, err := txn.CommitWithHook(ctx, hook)
	if err != nil {
		return err
	}
	if !applied {
		return NewTransactionNotApplied(op.bookmark)
	}
	return nil
}
