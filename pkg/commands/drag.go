package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tabtree/pkg/runner/edit"
	"tableflip.dev/tabtree/pkg/runner/session"
)

func addDrag(topLevel *cobra.Command) {
	var to, combine string

	cmd := &cobra.Command{
		Use:   "drag <draggable-id>",
		Short: base.Wrap80("Drag an item and drop it into a list or onto a group tile, in one step."),
		Long: `Drag an item and drop it into a list or onto a group tile, in one step.

Draggable ids (see "tabtree show -k"):
  tab-<t>-window-<w>     a tab of the active group
  window-<w>-group-<g>   a window
  group-<g>              a group

Drop targets for --to, with an optional ":<index>":
  tabs-<w>      the tabs of window w in the active group
  tabs-new      a new window in the active group
  windows-<g>   the windows of group g
  sidepanel     the group list

Combine targets for --combine are group-<g> or group-new.`,
		Example: `
tabtree drag tab-0-window-1 --to tabs-0:3
tabtree drag window-0-group-4 --combine group-2
tabtree drag group-5 --to sidepanel:2
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				d := edit.Drop{
					Edit:      edit.Edit{App: s.Service, JSON: oo.JSON, Out: cmd.OutOrStdout()},
					Draggable: args[0],
					To:        to,
					Combine:   combine,
				}
				return d.Do(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Droppable to drop into, as <droppable>[:<index>].")
	cmd.Flags().StringVar(&combine, "combine", "", "Group tile to combine onto.")
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
