package bookmarks

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bookmarkd/bookmarkd/internal/changeset"
	"github.com/bookmarkd/bookmarkd/internal/config"
	"github.com/bookmarkd/bookmarkd/internal/store"
)

// CreateOp atomically creates a bookmark pointing at a target changeset.
//
// A CreateOp is a short-lived, single-use value: construct it with
// NewCreateOp, configure it with the fluent With*/OnlyIf* methods, then
// consume it with exactly one Run call. Run performs, in strict order:
// authorization, kind classification, git mapping hook preparation (public
// only), transaction staging, commit. No external effect is observable on
// failure.
type CreateOp struct {
	bookmark      Name
	target        changeset.ID
	reason        UpdateReason
	auth          Authorization
	restriction   KindRestriction
	newChangesets changeset.IDMap
	replayData    *string
	operationID   string
	executed      bool
}

// NewCreateOp builds a create operation with default configuration: ambient
// authorization, no kind restriction, no new changesets.
func NewCreateOp(bookmark Name, target changeset.ID, reason UpdateReason) *CreateOp {
	return &CreateOp{
		bookmark:      bookmark,
		target:        target,
		reason:        reason,
		auth:          ContextAuthorization(),
		restriction:   AnyKind,
		newChangesets: changeset.IDMap{},
		operationID:   uuid.NewString(),
	}
}

// OnlyIfScratch declares that the bookmark must classify as scratch.
func (op *CreateOp) OnlyIfScratch() *CreateOp {
	op.restriction = OnlyScratch
	return op
}

// OnlyIfPublic declares that the bookmark must classify as public.
func (op *CreateOp) OnlyIfPublic() *CreateOp {
	op.restriction = OnlyPublic
	return op
}

// WithExplicitAuthorization evaluates the ACL for a caller-supplied
// principal instead of the ambient request context.
func (op *CreateOp) WithExplicitAuthorization(principal string) *CreateOp {
	op.auth = ExplicitAuthorization(principal)
	return op
}

// WithReplayData attaches opaque out-of-band replication metadata, passed
// through unmodified to the transaction.
func (op *CreateOp) WithReplayData(data string) *CreateOp {
	op.replayData = &data
	return op
}

// WithNewChangesets includes changeset records that have just been added to
// the repository in the same logical operation. Merging is idempotent:
// supplying the same key twice keeps the latest value, never an error.
func (op *CreateOp) WithNewChangesets(changesets changeset.IDMap) *CreateOp {
	op.newChangesets.Merge(changesets)
	return op
}

// WithOperationID overrides the generated audit correlation ID.
func (op *CreateOp) WithOperationID(id string) *CreateOp {
	op.operationID = id
	return op
}

// Run consumes the operation. Returns nil on success or a typed failure:
// PERMISSION_DENIED, KIND_MISMATCH, CONFIGURATION_CONFLICT,
// TRANSACTION_NOT_APPLIED, or a propagated storage error.
func (op *CreateOp) Run(
	ctx context.Context,
	s *store.Store,
	infinitepush config.InfinitepushParams,
	pushrebase config.PushrebaseParams,
	attrs *config.BookmarkAttrs,
) error {
	if op.executed {
		return fmt.Errorf("create of %q: operation already executed", op.bookmark)
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
		if err := txn.StageCreateScratch(op.bookmark.String(), op.target.String()); err != nil {
			return err
		}
	} else {
		if err := RequireGlobalrevsDisabled(pushrebase); err != nil {
			return err
		}
		hook, err = PopulateGitMappingHook(ctx, s, pushrebase, op.target, op.newChangesets)
		if err != nil {
			return err
		}
		if err := txn.StageCreatePublic(
			op.bookmark.String(), op.target.String(),
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
