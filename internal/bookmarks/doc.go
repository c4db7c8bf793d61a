// Package bookmarks implements the bookmark movement core: atomic
// creation, movement and deletion of named mutable pointers into the
// history graph, shared by many concurrent clients.
//
// Every operation follows the same linear pipeline:
//
//	Configured -> AuthorizationChecked -> KindResolved ->
//	{HookPrepared | NoHook} -> TransactionStaged -> Committed | Rejected
//
// Authorization runs first, so a caller never observes classification or
// storage behavior for a bookmark it cannot touch. The kind classifier then
// resolves scratch vs public and enforces any restriction the caller
// declared. Public moves validate the global-numbering precondition and may
// prepare a git mapping hook that commits atomically with the pointer
// write. The commit itself is a compare-and-set against the shared store:
// a lost race surfaces as TRANSACTION_NOT_APPLIED, distinct from storage
// errors, and is safe to retry by re-running the whole operation.
//
// Operations are short-lived, single-use builder values. They hold no locks
// across suspension points; the store's optimistic concurrency check at
// commit time is the only cross-operation coordination. The package
// performs no logging, metrics, retries or timeouts; those are the
// caller's concern.
package bookmarks
