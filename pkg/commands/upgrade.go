package commands

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"
)

func addUpgrade(topLevel *cobra.Command) {
	version := "latest"
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade tabtree cli.",
		Example: `
tabtree upgrade
tabtree upgrade --to v0.3.0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ex := exec.CommandContext(cmd.Context(), "go", "install", "tableflip.dev/tabtree/cmd/tabtree@"+version)
			var out bytes.Buffer
			ex.Stdout = &out
			ex.Stderr = &out
			if err := ex.Run(); err != nil {
				return oo.HandleError(fmt.Errorf("%s: %w\n%s", ex.String(), err, out.String()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), ex.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&version, "to", version, "Version to install.")

	topLevel.AddCommand(cmd)
}
