package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookmarkd/bookmarkd/internal/bookmarks"
	"github.com/bookmarkd/bookmarkd/internal/changeset"
	"github.com/bookmarkd/bookmarkd/internal/logging"
)

// MoveOptions holds flags for the move command.
type MoveOptions struct {
	*RootOptions
	Database    string
	Config      string
	Principal   string
	Reason      string
	OnlyScratch bool
	OnlyPublic  bool
	ReplayData  string
}

// NewMoveCommand creates the move command.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "move <name> <old-changeset-id> <new-changeset-id>",
		Short: "Move a bookmark to a new changeset",
		Long: `Move an existing bookmark from its expected old target to a new one.

The move is a compare-and-set: it applies only if the bookmark still
points at the old changeset when the transaction commits. A lost race
exits 1 with a TRANSACTION_NOT_APPLIED rejection and leaves no effect;
re-run to retry.

Example:
  bookmarkd move --db ./repo.db --principal alice main 4f2d... 9a1c...`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Config, "config", "", "path to repository config YAML")
	cmd.Flags().StringVar(&opts.Principal, "principal", "", "acting principal for ACL checks (required)")
	_ = cmd.MarkFlagRequired("principal")
	cmd.Flags().StringVar(&opts.Reason, "reason", "manualmove", "update reason recorded in the log")
	cmd.Flags().BoolVar(&opts.OnlyScratch, "only-scratch", false, "fail unless the name classifies as scratch")
	cmd.Flags().BoolVar(&opts.OnlyPublic, "only-public", false, "fail unless the name classifies as public")
	cmd.Flags().StringVar(&opts.ReplayData, "replay-data", "", "opaque replay metadata recorded in the log")

	return cmd
}

func runMove(opts *MoveOptions, rawName, rawOld, rawNew string, cmd *cobra.Command) error {
	if opts.OnlyScratch && opts.OnlyPublic {
		return NewExitError(ExitCommandError, "--only-scratch and --only-public are mutually exclusive")
	}
	name, err := bookmarks.ParseName(rawName)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid bookmark name", err)
	}
	oldTarget, err := changeset.ParseID(rawOld)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid old changeset id", err)
	}
	newTarget, err := changeset.ParseID(rawNew)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid new changeset id", err)
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

	op := bookmarks.NewUpdateOp(name, oldTarget, newTarget, reason).
		WithExplicitAuthorization(opts.Principal)
	if opts.OnlyScratch {
		op.OnlyIfScratch()
	}
	if opts.OnlyPublic {
		op.OnlyIfPublic()
	}
	if opts.ReplayData != "" {
		op.WithReplayData(opts.ReplayData)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := op.Run(ctx, env.store, env.cfg.Infinitepush, env.cfg.Pushrebase, env.cfg.Bookmarks); err != nil {
		return movementExitError("move", err)
	}

	logger := logging.GetLogger("cli")
	logger.Info().
		Str("bookmark", name.String()).
		Str("from", oldTarget.String()).
		Str("to", newTarget.String()).
		Msg("bookmark moved")

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(map[string]string{
			"bookmark": name.String(),
			"from":     oldTarget.String(),
			"to":       newTarget.String(),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "moved %s: %s -> %s\n", name, oldTarget, newTarget)
	return nil
}
