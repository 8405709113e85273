package commands

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/tabtree/pkg/logging"
	"tableflip.dev/tabtree/pkg/runner/session"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(tabtree completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(tabtree completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletionV2(os.Stdout, true)
		},
	}

	topLevel.AddCommand(cmd)
}

// completeGroups offers group names for the first argument.
func completeGroups(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return groupCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func groupCompletions(toComplete string) []string {
	cfg, err := so.Config()
	if err != nil {
		return nil
	}
	ctx := context.Background()
	s, err := session.Open(ctx, session.Options{Config: cfg, Logger: logging.Discard()})
	if err != nil {
		return nil
	}
	defer s.Close(ctx)

	var out []string
	for i, g := range s.State().Available {
		name := g.Name
		if name == "" {
			name = strconv.Itoa(i)
		}
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(toComplete)) {
			out = append(out, name)
		}
	}
	return out
}
