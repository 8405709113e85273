package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tabtree/pkg/runner/info"
	"tableflip.dev/tabtree/pkg/runner/session"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the record and where it is stored.",
		Example: `
tabtree info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				i := info.Info{
					Config: s.Config,
					App:    s.Service,
					JSON:   oo.JSON,
					Out:    cmd.OutOrStdout(),
				}
				return i.Do(ctx)
			})
		},
	}
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
