package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tabtree/pkg/commands/options"
	"tableflip.dev/tabtree/pkg/logging"
	"tableflip.dev/tabtree/pkg/runner/session"
	"tableflip.dev/tabtree/pkg/runner/track"
)

func addLive(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "live",
		Short: base.Wrap80("Keep the live group in step with the open-windows snapshot until interrupted."),
		Example: `
tabtree live --snapshot ~/.cache/tabtree/windows.json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				t := track.Track{
					App:     s.Service,
					Tracker: s.Tracker(),
					Log:     logging.Component(s.Logger, "live"),
				}
				return t.Do(ctx)
			})
		},
	}
	options.AddSnapshotArg(cmd, so)

	topLevel.AddCommand(cmd)
}
