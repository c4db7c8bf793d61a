package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookmarkd/bookmarkd/internal/bookmarks"
	"github.com/bookmarkd/bookmarkd/internal/changeset"
	"github.com/bookmarkd/bookmarkd/internal/logging"
)

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	Database    string
	Config      string
	Principal   string
	Reason      string
	OnlyScratch bool
	OnlyPublic  bool
	ReplayData  string
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create <name> <changeset-id>",
		Short: "Create a bookmark pointing at a changeset",
		Long: `Create a new bookmark pointing at the given changeset.

The name is classified against the configured scratch namespace. Public
creates are authorized against the bookmark ACL table, recorded in the
update log, and derive git mapping entries when the repository enables
that. Scratch creates are unlogged.

Example:
  bookmarkd create --db ./repo.db --principal alice main 4f2d...
  bookmarkd create --db ./repo.db --principal alice --only-scratch scratch/alice/wip 4f2d...`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(opts, args[0], args[1], cmd)
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

func runCreate(opts *CreateOptions, rawName, rawTarget string, cmd *cobra.Command) error {
	if opts.OnlyScratch && opts.OnlyPublic {
		return NewExitError(ExitCommandError, "--only-scratch and --only-public are mutually exclusive")
	}
	name, err := bookmarks.ParseName(rawName)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid bookmark name", err)
	}
	target, err := changeset.ParseID(rawTarget)
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

	op := bookmarks.NewCreateOp(name, target, reason).
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
		return movementExitError("create", err)
	}

	logger := logging.GetLogger("cli")
	logger.Info().
		Str("bookmark", name.String()).
		Str("target", target.String()).
		Msg("bookmark created")

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(map[string]string{
			"bookmark": name.String(),
			"target":   target.String(),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s -> %s\n", name, target)
	return nil
}
