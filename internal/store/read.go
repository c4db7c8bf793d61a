package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bookmarkd/bookmarkd/internal/changeset"
)

// ResolveBookmark returns the bookmark with the given name, or nil if it
// does not exist.
func (s *Store) ResolveBookmark(ctx context.Context, name string) (*Bookmark, error) {
	var b Bookmark
	err := s.db.QueryRowContext(ctx, `
		SELECT name, kind, changeset_id
		FROM bookmarks
		WHERE name = ?
	`, name).Scan(&b.Name, &b.Kind, &b.ChangesetID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve bookmark: %w", err)
	}
	return &b, nil
}

// ListBookmarks returns all bookmarks, ordered by name for deterministic
// output. Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListBookmarks(ctx context.Context) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, changeset_id
		FROM bookmarks
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []Bookmark{}
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.Name, &b.Kind, &b.ChangesetID); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}

	return bookmarks, nil
}

// ReadLog returns up to limit log entries for a bookmark, newest first.
// A limit of 0 or less means no limit.
func (s *Store) ReadLog(ctx context.Context, name string, limit int) ([]LogEntry, error) {
	query := `
		SELECT id, name, from_changeset_id, to_changeset_id, reason, operation_id, replay_data
		FROM bookmark_log
		WHERE name = ?
		ORDER BY id DESC
	`
	args := []any{name}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read bookmark log: %w", err)
	}
	defer rows.Close()

	entries := []LogEntry{}
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.FromChangesetID, &e.ToChangesetID, &e.Reason, &e.OperationID, &e.ReplayData); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log entries: %w", err)
	}

	return entries, nil
}

// GetChangeset returns the stored changeset record for an ID, or nil if the
// store does not hold it.
func (s *Store) GetChangeset(ctx context.Context, id changeset.ID) (*changeset.Changeset, error) {
	var parentsJSON, extraJSON string
	cs := changeset.Changeset{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT parents, author, message, extra
		FROM changesets
		WHERE id = ?
	`, string(id)).Scan(&parentsJSON, &cs.Author, &cs.Message, &extraJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get changeset: %w", err)
	}

	cs.Parents, err = unmarshalParents(parentsJSON)
	if err != nil {
		return nil, fmt.Errorf("get changeset %s: %w", id, err)
	}
	cs.Extra, err = unmarshalExtra(extraJSON)
	if err != nil {
		return nil, fmt.Errorf("get changeset %s: %w", id, err)
	}

	return &cs, nil
}

// HasGitMapping reports whether a git mapping entry exists for a changeset.
func (s *Store) HasGitMapping(ctx context.Context, id changeset.ID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM git_mapping WHERE changeset_id = ?
	`, string(id)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check git mapping: %w", err)
	}
	return count > 0, nil
}

// GetGitMapping returns the git hash mapped to a changeset, or "" if none.
func (s *Store) GetGitMapping(ctx context.Context, id changeset.ID) (string, error) {
	var sha string
	err := s.db.QueryRowContext(ctx, `
		SELECT git_sha1 FROM git_mapping WHERE changeset_id = ?
	`, string(id)).Scan(&sha)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get git mapping: %w", err)
	}
	return sha, nil
}
