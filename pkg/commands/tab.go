package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/tabs"
)

func addTab(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "tab",
		Short: base.Wrap80("Delete and move tabs. Tabs are addressed by group, window and index."),
		Run: func(cmd *cobra.Command, args []string) {
			// a sub-command is required.
			_ = cmd.Help()
		},
	}

	addTabDelete(cmd)
	addTabMove(cmd)
	addTabCombine(cmd)

	for _, sub := range cmd.Commands() {
		sub.ValidArgsFunction = completeGroups
	}

	topLevel.AddCommand(cmd)
}

func addTabDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "delete <group> <window> <tab>",
		Aliases: []string{"rm"},
		Short:   "Delete a tab, then any window or group it leaves empty.",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := indexes([]string{"window", "tab"}, args[1:])
			if err != nil {
				return oo.HandleError(err)
			}
			return runEdit(cmd, "tab deleted", func(s *app.Service, c *tabs.Collection) (bool, error) {
				g, err := app.ResolveGroup(c, args[0])
				if err != nil {
					return false, err
				}
				return true, s.DeleteTab(g, at[0], at[1])
			})
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addTabMove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "move <group> <window> <tab> <destination-window> <destination-tab>",
		Short: "Move a tab within its group.",
		Example: `
tabtree tab move Reading 0 3 1 0
`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := indexes([]string{"window", "tab", "destination-window", "destination-tab"}, args[1:])
			if err != nil {
				return oo.HandleError(err)
			}
			return runEdit(cmd, "tab moved", func(s *app.Service, c *tabs.Collection) (bool, error) {
				g, err := app.ResolveGroup(c, args[0])
				if err != nil {
					return false, err
				}
				return s.Move(reducer.UpdateTabsFromGroupDnDAction{
					Group:             g,
					SourceWindow:      at[0],
					SourceTab:         at[1],
					DestinationWindow: at[2],
					DestinationTab:    at[3],
				})
			})
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addTabCombine(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "combine <group> <window> <tab> <destination-group>",
		Short: "Move a tab into another group as a new window.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := indexes([]string{"window", "tab"}, args[1:3])
			if err != nil {
				return oo.HandleError(err)
			}
			return runEdit(cmd, "tab combined", func(s *app.Service, c *tabs.Collection) (bool, error) {
				g, err := app.ResolveGroup(c, args[0])
				if err != nil {
					return false, err
				}
				dst, err := app.ResolveGroup(c, args[3])
				if err != nil {
					return false, err
				}
				return s.Combine(g, at[0], at[1], dst)
			})
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
