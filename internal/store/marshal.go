package store

import (
	"encoding/json"
	"fmt"

	"github.com/bookmarkd/bookmarkd/internal/changeset"
)

// Changeset parents and extras are stored as JSON columns. These helpers
// keep the encoding in one place; the content-addressed ID is computed from
// the in-memory record, never from the stored JSON.

func marshalParents(parents []changeset.ID) (string, error) {
	if parents == nil {
		parents = []changeset.ID{}
	}
	data, err := json.Marshal(parents)
	if err != nil {
		return "", fmt.Errorf("marshal parents: %w", err)
	}
	return string(data), nil
}

func unmarshalParents(data string) ([]changeset.ID, error) {
	var parents []changeset.ID
	if err := json.Unmarshal([]byte(data), &parents); err != nil {
		return nil, fmt.Errorf("unmarshal parents: %w", err)
	}
	if len(parents) == 0 {
		return nil, nil
	}
	return parents, nil
}

func marshalExtra(extra map[string]string) (string, error) {
	if extra == nil {
		extra = map[string]string{}
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return "", fmt.Errorf("marshal extra: %w", err)
	}
	return string(data), nil
}

func unmarshalExtra(data string) (map[string]string, error) {
	var extra map[string]string
	if err := json.Unmarshal([]byte(data), &extra); err != nil {
		return nil, fmt.Errorf("unmarshal extra: %w", err)
	}
	if len(extra) == 0 {
		return nil, nil
	}
	return extra, nil
}
