package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcward/gridstreak/internal/syncer"
)

// NewSyncCommand pushes unsynced scores and pulls the remote history.
func NewSyncCommand(opts *RootOptions) *cobra.Command {
	var (
		pushOnly bool
		pullOnly bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync scores with the remote service",
		Long:  "Pushes locally recorded scores and merges the remote history into the local store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if app.cfg.RemoteURL == "" {
				return NewExitError(ExitCommandError, "no remote configured (set remoteUrl or GRIDSTREAK_REMOTE_URL)")
			}

			userID, err := app.syncUserID(cmd)
			if err != nil {
				return err
			}

			engine := syncer.New(app.store, syncer.NewHTTPClient(app.cfg.RemoteURL), nil)
			ctx := cmd.Context()

			var (
				push syncer.PushResult
				pull syncer.PullResult
			)
			if !pullOnly {
				if push, err = engine.PushUnsynced(ctx, userID); err != nil {
					return WrapExitError(ExitCommandError, "pushing scores", err)
				}
			}
			if !pushOnly {
				if pull, err = engine.PullAndMerge(ctx, userID); err != nil {
					return WrapExitError(ExitCommandError, "pulling scores", err)
				}
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			text := fmt.Sprintf("pushed %d (failed %d, rejected %d), fetched %d, merged %d",
				push.Synced, push.Failed, push.Rejected, pull.Fetched, pull.Merged)
			if err := out.Success(text, map[string]any{"push": push, "pull": pull}); err != nil {
				return err
			}

			if push.Rejected > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d submissions rejected by the remote", push.Rejected))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pushOnly, "push", false, "push only")
	cmd.Flags().BoolVar(&pullOnly, "pull", false, "pull only")
	cmd.MarkFlagsMutuallyExclusive("push", "pull")
	return cmd
}
