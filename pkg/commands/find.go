package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tabtree/pkg/runner/find"
	"tableflip.dev/tabtree/pkg/runner/session"
)

func addFind(topLevel *cobra.Command) {
	limit := 20

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy search saved tabs by title and url.",
		Example: `
tabtree find go blog
tabtree find gh.com/issues --limit 5 --json
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				f := find.Find{
					App:   s.Service,
					Query: strings.Join(args, " "),
					Limit: limit,
					JSON:  oo.JSON,
					Out:   cmd.OutOrStdout(),
				}
				return f.Do(ctx)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", limit, "Print at most this many matches (0 for all).")
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
