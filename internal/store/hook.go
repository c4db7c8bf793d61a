package store

import (
	"context"
	"database/sql"
	"fmt"
)

// GitMappingEntry is one row the git mapping hook will write.
type GitMappingEntry struct {
	ChangesetID string
	GitSHA1     string
}

// GitMappingHook builds a TxnHook that inserts the given mapping entries.
// Inserts are idempotent per changeset (the mapping is content-derived, so
// a duplicate insert is always the same row).
//
// The transaction component invokes the hook without knowing anything about
// git mapping semantics; it only guarantees the hook commits atomically
// with the staged pointer writes.
func GitMappingHook(entries []GitMappingEntry) TxnHook {
	return func(ctx context.Context, tx *sql.Tx) error {
		for _, e := range entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO git_mapping (changeset_id, git_sha1)
				VALUES (?, ?)
				ON CONFLICT(changeset_id) DO NOTHING
			`, e.ChangesetID, e.GitSHA1)
			if err != nil {
				return fmt.Errorf("insert git mapping for %s: %w", e.ChangesetID, err)
			}
		}
		return nil
	}
}
