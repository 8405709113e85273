package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tabtree/pkg/runner/key"
)

func addKey(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the legend of marks and draggable ids.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k := key.Key{Out: cmd.OutOrStdout()}
			return k.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
