package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookmarkd/bookmarkd/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log <name>",
		Short: "Show the update log of a bookmark",
		Long: `Show the append-only update log of a public bookmark, newest entry
first. Scratch bookmarks are unlogged and always show an empty log.

Example:
  bookmarkd log --db ./repo.db main
  bookmarkd log --db ./repo.db main --limit 10`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum entries to show (0 = all)")

	return cmd
}

// logEntryJSON is the JSON shape of one log row.
type logEntryJSON struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	From        *string `json:"from,omitempty"`
	To          *string `json:"to,omitempty"`
	Reason      string  `json:"reason"`
	OperationID string  `json:"operation_id"`
	ReplayData  *string `json:"replay_data,omitempty"`
}

func runLog(opts *LogOptions, name string, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	entries, err := st.ReadLog(ctx, name, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read bookmark log", err)
	}

	if opts.Format == "json" {
		return outputLogJSON(opts, entries, cmd)
	}
	return outputLogText(entries, cmd)
}

func outputLogJSON(opts *LogOptions, entries []store.LogEntry, cmd *cobra.Command) error {
	rows := make([]logEntryJSON, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, logEntryJSON{
			ID:          e.ID,
			Name:        e.Name,
			From:        e.FromChangesetID,
			To:          e.ToChangesetID,
			Reason:      e.Reason,
			OperationID: e.OperationID,
			ReplayData:  e.ReplayData,
		})
	}
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(map[string]interface{}{
		"entries": rows,
		"count":   len(rows),
	})
}

func outputLogText(entries []store.LogEntry, cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "no log entries")
		return nil
	}
	for _, e := range entries {
		from, to := "-", "-"
		if e.FromChangesetID != nil {
			from = *e.FromChangesetID
		}
		if e.ToChangesetID != nil {
			to = *e.ToChangesetID
		}
		fmt.Fprintf(w, "%d\t%s\t%s -> %s\treason=%s\top=%s\n", e.ID, e.Name, from, to, e.Reason, e.OperationID)
	}
	return nil
}
