package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/tabtree/pkg/commands/options"
	"tableflip.dev/tabtree/pkg/runner/session"
	"tableflip.dev/tabtree/pkg/runner/transfer"
)

func addImport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Append the groups of a JSON or YAML export.",
		Long: `Append the groups of a JSON or YAML export, or of a bare list of groups.
The permanent groups of a full record are skipped. Without a file, the groups
are read from stdin.`,
		Example: `
tabtree import backup.yaml
tabtree export | ssh other tabtree import
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) > 0 {
				path = args[0]
			}
			if path == "-" && options.Interactive() {
				return errors.New("nothing to import: pass a file or pipe one in")
			}
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				i := transfer.Import{App: s.Service, Path: path, In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
				return i.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command) {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the whole record as JSON or YAML.",
		Example: `
tabtree export > backup.json
tabtree export backup.yaml
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				e := transfer.Export{App: s.Service, Format: format, Out: cmd.OutOrStdout()}
				if len(args) > 0 {
					e.Path = args[0]
				}
				return e.Do(ctx)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format, json or yaml. Defaults from the file extension.")

	topLevel.AddCommand(cmd)
}
