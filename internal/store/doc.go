// Package store provides the SQLite-backed shared bookmark store.
//
// The store holds four tables:
//   - bookmarks: the named mutable pointers themselves (name, kind, target)
//   - bookmark_log: append-only audit log of public bookmark movement
//   - changesets: immutable changeset records keyed by content-addressed ID
//   - git_mapping: secondary identifier mapping (changeset ID to git hash)
//
// # Concurrency
//
// The store is the only shared mutable resource in the system. It is never
// mutated outside a Transaction, and every Transaction is single-use: create
// once, stage once per name, commit once. Commit uses optimistic concurrency:
// each staged operation carries its precondition and the transaction reports
// applied == false (not an error) when a concurrent conflicting change made
// any precondition fail. The SQL transaction gives the commit decision
// linearizable ordering: at most one of several racing creates of the same
// name applies.
//
// # Hook atomicity
//
// CommitWithHook runs a deferred write (TxnHook) inside the same SQL
// transaction as the pointer writes. Because everything lives in one SQLite
// database, this is true cross-write atomicity: the hook's rows exist
// exactly when the pointer update applied.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//   - single writer connection: avoids SQLITE_BUSY under racing commits
package store
