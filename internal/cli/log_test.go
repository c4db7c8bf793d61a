package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmarkd/bookmarkd/internal/store"
)

// seedLog writes a deterministic create+move history for "main" by staging
// transactions directly, with fixed operation IDs.
func seedLog(t *testing.T, dbPath string) {
	t.Helper()
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	txn := st.Begin()
	require.NoError(t, txn.StageCreatePublic("main", testID('a'), "push", "op-create", nil))
	applied, err := txn.Commit(ctx)
	require.NoError(t, err)
	require.True(t, applied)

	txn = st.Begin()
	require.NoError(t, txn.StageUpdate("main", testID('a'), testID('b'), "pushrebase", "op-move", nil))
	applied, err = txn.Commit(ctx)
	require.NoError(t, err)
	require.True(t, applied)
}

func TestLogTextOutput(t *testing.T) {
	dbPath := newTestDB(t)
	seedLog(t, dbPath)

	cmd := NewLogCommand(&RootOptions{Format: "text"})
	out, err := runCommand(t, cmd, "--db", dbPath, "main")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "log_text", []byte(out))
}

func TestLogLimit(t *testing.T) {
	dbPath := newTestDB(t)
	seedLog(t, dbPath)

	cmd := NewLogCommand(&RootOptions{Format: "text"})
	out, err := runCommand(t, cmd, "--db", dbPath, "main", "--limit", "1")
	require.NoError(t, err)

	// Only the newest entry.
	assert.Contains(t, out, "op-move")
	assert.NotContains(t, out, "op-create")
}

func TestLogEmptyBookmark(t *testing.T) {
	dbPath := newTestDB(t)

	cmd := NewLogCommand(&RootOptions{Format: "text"})
	out, err := runCommand(t, cmd, "--db", dbPath, "never-moved")
	require.NoError(t, err)
	assert.Contains(t, out, "no log entries")
}

func TestLogJSONOutput(t *testing.T) {
	dbPath := newTestDB(t)
	seedLog(t, dbPath)

	cmd := NewLogCommand(&RootOptions{Format: "json"})
	out, err := runCommand(t, cmd, "--db", dbPath, "main")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Entries []logEntryJSON `json:"entries"`
			Count   int            `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Equal(t, 2, resp.Data.Count)

	// Newest first: the move, then the create.
	assert.Equal(t, "op-move", resp.Data.Entries[0].OperationID)
	require.NotNil(t, resp.Data.Entries[0].From)
	assert.Equal(t, testID('a'), *resp.Data.Entries[0].From)
	assert.Nil(t, resp.Data.Entries[1].From, "creates have no source")
}
