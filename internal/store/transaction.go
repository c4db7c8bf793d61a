package store

import (
	"context"
	"database/sql"
	"fmt"
)

// TxnHook is a deferred write bound to transaction commit. The transaction
// invokes it inside the same SQL transaction as the staged pointer writes,
// strictly after all of them applied, so the hook's effect exists if and
// only if the pointer update durably applied.
//
// Hooks must only use the supplied tx for writes.
type TxnHook func(ctx context.Context, tx *sql.Tx) error

type opType int

const (
	opCreate opType = iota
	opUpdate
	opDelete
)

// stagedOp is a single not-yet-applied pointer mutation. Staging performs no
// store I/O; all checks against shared state happen at commit time.
type stagedOp struct {
	op   opType
	name string
	kind string

	// oldID is the expected current target for updates and deletes (the
	// compare half of compare-and-set). Empty for creates.
	oldID string

	// newID is the target to write. Empty for deletes.
	newID string

	// Log fields, set only for public-namespace operations.
	logged      bool
	reason      string
	operationID string
	replayData  *string
}

// Transaction is a staged, single-use mutation against the shared bookmark
// store. Create once, stage once per name, commit once.
//
// Commit uses optimistic concurrency: every staged operation carries its
// precondition (name absent for creates, expected old target for updates and
// deletes) and the whole transaction applies atomically or not at all. A
// concurrent conflicting change makes Commit report applied == false with no
// partial effect; that is ordinary control flow, not an error.
type Transaction struct {
	store  *Store
	staged []stagedOp
	names  map[string]bool
	done   bool
}

// Begin starts a new pointer transaction. Begin itself performs no store
// I/O.
func (s *Store) Begin() *Transaction {
	return &Transaction{
		store: s,
		names: make(map[string]bool),
	}
}

// StageCreateScratch stages creation of a scratch bookmark. Scratch writes
// carry no log entry.
func (t *Transaction) StageCreateScratch(name, target string) error {
	return t.stage(stagedOp{
		op:    opCreate,
		name:  name,
		kind:  KindScratch,
		newID: target,
	})
}

// StageCreatePublic stages creation of a public bookmark together with its
// log entry.
func (t *Transaction) StageCreatePublic(name, target, reason, operationID string, replayData *string) error {
	return t.stage(stagedOp{
		op:          opCreate,
		name:        name,
		kind:        KindPublic,
		newID:       target,
		logged:      true,
		reason:      reason,
		operationID: operationID,
		replayData:  replayData,
	})
}

// StageUpdateScratch stages a compare-and-set move of a scratch bookmark
// from old to new.
func (t *Transaction) StageUpdateScratch(name, old, new string) error {
	return t.stage(stagedOp{
		op:    opUpdate,
		name:  name,
		kind:  KindScratch,
		oldID: old,
		newID: new,
	})
}

// StageUpdate stages a compare-and-set move of a public bookmark from old to
// new, together with its log entry.
func (t *Transaction) StageUpdate(name, old, new, reason, operationID string, replayData *string) error {
	return t.stage(stagedOp{
		op:          opUpdate,
		name:        name,
		kind:        KindPublic,
		oldID:       old,
		newID:       new,
		logged:      true,
		reason:      reason,
		operationID: operationID,
		replayData:  replayData,
	})
}

// StageDelete stages a compare-and-set deletion of a public bookmark,
// together with its log entry.
func (t *Transaction) StageDelete(name, old, reason, operationID string) error {
	return t.stage(stagedOp{
		op:          opDelete,
		name:        name,
		kind:        KindPublic,
		oldID:       old,
		logged:      true,
		reason:      reason,
		operationID: operationID,
	})
}

func (t *Transaction) stage(op stagedOp) error {
	if t.done {
		return fmt.Errorf("transaction already committed")
	}
	if op.name == "" {
		return fmt.Errorf("stage: empty bookmark name")
	}
	if op.op != opDelete && op.newID == "" {
		return fmt.Errorf("stage %q: empty target", op.name)
	}
	if t.names[op.name] {
		return fmt.Errorf("stage %q: bookmark already staged in this transaction", op.name)
	}
	t.names[op.name] = true
	t.staged = append(t.staged, op)
	return nil
}

// Commit attempts to apply all staged operations atomically.
//
// Returns (true, nil) if the transaction applied, (false, nil) if it lost a
// race against a concurrent conflicting change (no partial effect), and
// (false, err) for genuine storage faults.
func (t *Transaction) Commit(ctx context.Context) (bool, error) {
	return t.CommitWithHook(ctx, nil)
}

// CommitWithHook is Commit with an additional deferred write executed as
// part of the same SQL transaction, after all pointer writes applied.
//
// The backing store is a single SQLite database, so the hook and the pointer
// writes commit with true atomicity: a hook error aborts the pointer writes,
// and a pointer-write conflict rolls back before the hook runs.
func (t *Transaction) CommitWithHook(ctx context.Context, hook TxnHook) (bool, error) {
	if t.done {
		return false, fmt.Errorf("transaction already committed")
	}
	t.done = true

	if len(t.staged) == 0 {
		return false, fmt.Errorf("commit: no operations staged")
	}

	tx, err := t.store.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("commit: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, op := range t.staged {
		applied, err := applyOp(ctx, tx, op)
		if err != nil {
			return false, err
		}
		if !applied {
			// Precondition failed: the name exists already, or the pointer
			// moved concurrently. Roll back everything.
			return false, nil
		}
	}

	if hook != nil {
		if err := hook(ctx, tx); err != nil {
			return false, fmt.Errorf("commit hook: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	return true, nil
}

// applyOp executes one staged operation inside tx. Returns applied == false
// when the operation's optimistic precondition did not hold.
func applyOp(ctx context.Context, tx *sql.Tx, op stagedOp) (bool, error) {
	var result sql.Result
	var err error

	switch op.op {
	case opCreate:
		// A create is not an upsert: an existing row, whatever its kind,
		// means the create does not apply.
		result, err = tx.ExecContext(ctx, `
			INSERT INTO bookmarks (name, kind, changeset_id)
			VALUES (?, ?, ?)
			ON CONFLICT(name) DO NOTHING
		`, op.name, op.kind, op.newID)
	case opUpdate:
		result, err = tx.ExecContext(ctx, `
			UPDATE bookmarks
			SET changeset_id = ?
			WHERE name = ? AND kind = ? AND changeset_id = ?
		`, op.newID, op.name, op.kind, op.oldID)
	case opDelete:
		result, err = tx.ExecContext(ctx, `
			DELETE FROM bookmarks
			WHERE name = ? AND kind = ? AND changeset_id = ?
		`, op.name, op.kind, op.oldID)
	default:
		return false, fmt.Errorf("apply %q: unknown operation %d", op.name, op.op)
	}
	if err != nil {
		return false, fmt.Errorf("apply %q: %w", op.name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("apply %q: rows affected: %w", op.name, err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	if op.logged {
		if err := appendLog(ctx, tx, op); err != nil {
			return false, err
		}
	}

	return true, nil
}

// appendLog writes the audit row for a public-namespace operation.
func appendLog(ctx context.Context, tx *sql.Tx, op stagedOp) error {
	var fromID, toID *string
	if op.oldID != "" {
		fromID = &op.oldID
	}
	if op.newID != "" {
		toID = &op.newID
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO bookmark_log (name, from_changeset_id, to_changeset_id, reason, operation_id, replay_data)
		VALUES (?, ?, ?, ?, ?, ?)
	`, op.name, fromID, toID, op.reason, op.operationID, op.replayData)
	if err != nil {
		return fmt.Errorf("append log for %q: %w", op.name, err)
	}
	return nil
}
