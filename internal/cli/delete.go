package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookmarkd/bookmarkd/internal/bookmarks"
	"github.com/bookmarkd/bookmarkd/internal/changeset"
	"github.com/bookmarkd/bookmarkd/internal/logging"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Database  string
	Config    string
	Principal string
	Reason    string
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <name> <changeset-id>",
		Short: "Delete a public bookmark",
		Long: `Delete a bookmark that still points at the expected changeset.

Scratch bookmarks cannot be deleted. The deletion is recorded in the
update log with an empty destination.

Example:
  bookmarkd delete --db ./repo.db --principal alice release/1.0 4f2d...`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Config, "config", "", "path to repository config YAML")
	cmd.Flags().StringVar(&opts.Principal, "principal", "", "acting principal for ACL checks (required)")
	_ = cmd.MarkFlagRequired("principal")
	cmd.Flags().StringVar(&opts.Reason, "reason", "manualmove", "update reason recorded in the log")

	return cmd
}

func runDelete(opts *DeleteOptions, rawName, rawTarget string, cmd *cobra.Command) error {
	name, err := bookmarks.ParseName(rawName)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid bookmark name", err)
	}
	oldTarget, err := changeset.ParseID(rawTarget)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid changeset id", err)
	}
	reason, err := bookmarks.ParseReason(opts.Reason)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid reason", err)
	}

	env, err := openEnv(opts.Database, opts.Config)
	if err != nil {
		return err
	}
	defer env.Close()

	op := bookmarks.NewDeleteOp(name, oldTarget, reason).
		WithExplicitAuthorization(opts.Principal)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := op.Run(ctx, env.store, env.cfg.Infinitepush, env.cfg.Bookmarks); err != nil {
		return movementExitError("delete", err)
	}

	logger := logging.GetLogger("cli")
	logger.Info().
		Str("bookmark", name.String()).
		Msg("bookmark deleted")

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(map[string]string{
			"bookmark": name.String(),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", name)
	return nil
}
