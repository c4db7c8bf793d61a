package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookmarkd/bookmarkd/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all bookmarks",
		Long: `List every bookmark in the store with its kind and current target,
ordered by name.

Example:
  bookmarkd list --db ./repo.db
  bookmarkd list --db ./repo.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// bookmarkJSON is the JSON shape of one bookmark row.
type bookmarkJSON struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	ChangesetID string `json:"changeset_id"`
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	all, err := st.ListBookmarks(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list bookmarks", err)
	}

	if opts.Format == "json" {
		return outputListJSON(opts, all, cmd)
	}
	return outputListText(all, cmd)
}

func outputListJSON(opts *ListOptions, all []store.Bookmark, cmd *cobra.Command) error {
	rows := make([]bookmarkJSON, 0, len(all))
	for _, b := range all {
		rows = append(rows, bookmarkJSON{Name: b.Name, Kind: b.Kind, ChangesetID: b.ChangesetID})
	}
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(map[string]interface{}{
		"bookmarks": rows,
		"count":     len(rows),
	})
}

func outputListText(all []store.Bookmark, cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	if len(all) == 0 {
		fmt.Fprintln(w, "no bookmarks")
		return nil
	}
	for _, b := range all {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.Name, b.Kind, b.ChangesetID)
	}
	return nil
}
