package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tabtree/pkg/runner/report"
	"tableflip.dev/tabtree/pkg/runner/session"
	"tableflip.dev/tabtree/pkg/timeutil"
)

func addReport(topLevel *cobra.Command) {
	var last string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Display the groups updated recently, newest first",
		Long: `Report lists the groups whose last update falls within the specified time window.

Examples:
  tabtree report
  tabtree report --last 3d
  tabtree report --since 1w2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				r := report.Report{App: s.Service, Window: last, JSON: oo.JSON, Out: cmd.OutOrStdout()}
				return r.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, "time window to include (for example 3d, 1w)")
	cmd.Flags().StringVar(&last, "since", timeutil.DefaultWindow, "alias of --last")
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
