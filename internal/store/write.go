package store

import (
	"context"
	"fmt"

	"github.com/bookmarkd/bookmarkd/internal/changeset"
)

// PutChangeset inserts a changeset record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - changesets are immutable
// and keyed by content, so a duplicate insert is always the same record.
func (s *Store) PutChangeset(ctx context.Context, cs changeset.Changeset) error {
	parentsJSON, err := marshalParents(cs.Parents)
	if err != nil {
		return fmt.Errorf("put changeset: %w", err)
	}

	extraJSON, err := marshalExtra(cs.Extra)
	if err != nil {
		return fmt.Errorf("put changeset: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO changesets (id, parents, author, message, extra)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		string(cs.ID),
		parentsJSON,
		cs.Author,
		cs.Message,
		extraJSON,
	)
	if err != nil {
		return fmt.Errorf("put changeset: %w", err)
	}

	return nil
}
