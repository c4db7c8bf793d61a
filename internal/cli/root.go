package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookmarkd/bookmarkd/internal/bookmarks"
	"github.com/bookmarkd/bookmarkd/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose int
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the bookmarkd CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bookmarkd",
		Short: "Bookmark movement for a source control metadata store",
		Long: `bookmarkd manages named mutable pointers (bookmarks) into a commit graph,
backed by a SQLite metadata store. Public bookmark movement is authorized,
logged and committed atomically with any derived git mapping entries;
scratch bookmarks live in a configured namespace and leave no log.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			logging.Setup(opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewMoveCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// movementExitError maps a failed movement operation onto a CLI exit code:
// typed rejections exit 1, storage and plumbing faults exit 2.
func movementExitError(verb string, err error) error {
	var me *bookmarks.MovementError
	if errors.As(err, &me) {
		return WrapExitError(ExitFailure, "bookmark "+verb+" rejected", err)
	}
	return WrapExitError(ExitCommandError, "bookmark "+verb+" failed", err)
}
