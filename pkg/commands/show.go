package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tabtree/pkg/commands/options"
	"tableflip.dev/tabtree/pkg/runner/get"
	"tableflip.dev/tabtree/pkg/runner/session"
)

func addShow(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	sh := &options.ShowOptions{}

	cmd := &cobra.Command{
		Use:     "show [group]",
		Aliases: []string{"get", "ls"},
		Short:   "List groups, or the windows and tabs of one group.",
		Example: `
tabtree show
tabtree show Reading
tabtree show --tree -k
tabtree show 2 -o yaml
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeGroups,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				g := get.Get{
					App:    s.Service,
					Tree:   sh.Tree,
					ShowID: io.ShowID,
					Output: sh.Output,
					Width:  sh.Width,
					Out:    cmd.OutOrStdout(),
				}
				if len(args) > 0 {
					g.Group = args[0]
				}
				return g.Do(ctx)
			})
		},
	}
	options.AddShowIDArgs(cmd, io)
	options.AddShowArgs(cmd, sh)

	topLevel.AddCommand(cmd)
}
