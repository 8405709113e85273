package commands

import (
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/commands/options"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/runner/edit"
	"tableflip.dev/tabtree/pkg/tabs"
)

func addGroup(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "group",
		Short: base.Wrap80("Create, edit and reorder groups. Groups are addressed by index, id or name."),
		Run: func(cmd *cobra.Command, args []string) {
			// a sub-command is required.
			_ = cmd.Help()
		},
	}

	addGroupAdd(cmd)
	addGroupDelete(cmd)
	addGroupRename(cmd)
	addGroupColor(cmd)
	addGroupMove(cmd)
	addGroupActivate(cmd)
	addGroupStamp(cmd)

	// Group-wide actions that only need the group.
	addGroupAction(cmd, "duplicate", "Append a copy of the group.", "group duplicated",
		func(g int) reducer.Action { return reducer.DuplicateGroupAction{Group: g} })
	addGroupAction(cmd, "merge", "Append the open windows to the group.", "open windows merged",
		func(g int) reducer.Action { return reducer.MergeWithCurrentAction{Group: g} })
	addGroupAction(cmd, "replace", "Replace the group's windows with the open windows.", "group replaced",
		func(g int) reducer.Action { return reducer.ReplaceWithCurrentAction{Group: g} })
	addGroupAction(cmd, "unite", "Move every tab of the group into its first window.", "windows united",
		func(g int) reducer.Action { return reducer.UniteWindowsAction{Group: g} })
	addGroupAction(cmd, "split", "Give every tab of the group its own window.", "windows split",
		func(g int) reducer.Action { return reducer.SplitWindowsAction{Group: g} })

	for _, sub := range cmd.Commands() {
		if sub.Name() != "add" {
			sub.ValidArgsFunction = completeGroups
		}
	}

	topLevel.AddCommand(cmd)
}

func addGroupAdd(topLevel *cobra.Command) {
	color := &options.ColorValue{}
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Append an empty group.",
		Example: `
tabtree group add Reading --color "#336699"
`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return runEdit(cmd, "group added", edit.Dispatch(reducer.AddGroupAction{Name: name, Color: color.Hex}))
		},
	}
	options.AddColorArg(cmd, color)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addGroupDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "delete <group>",
		Aliases: []string{"rm"},
		Short:   "Delete a group. The first two groups are permanent.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, "group deleted", func(s *app.Service, c *tabs.Collection) (bool, error) {
				g, err := app.ResolveGroup(c, args[0])
				if err != nil {
					return false, err
				}
				return true, s.DeleteGroup(g)
			})
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addGroupRename(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "rename <group> <name>",
		Short: "Rename a group.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args[1:], " ")
			return runEdit(cmd, "group renamed", edit.Group(args[0], func(g int) reducer.Action {
				return reducer.UpdateNameAction{Group: g, Name: name}
			}))
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addGroupColor(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "color <group> <color>",
		Short: "Recolor a group.",
		Example: `
tabtree group color Reading f0a
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			color := &options.ColorValue{}
			if err := color.Set(args[1]); err != nil {
				return oo.HandleError(err)
			}
			return runEdit(cmd, "group recolored", edit.Group(args[0], func(g int) reducer.Action {
				return reducer.UpdateColorAction{Group: g, Color: color.Hex}
			}))
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addGroupMove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "move <group> <index>",
		Short: "Move a group to another position in the list.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := indexes([]string{"index"}, args[1:])
			if err != nil {
				return oo.HandleError(err)
			}
			return runEdit(cmd, "group moved", edit.Group(args[0], func(g int) reducer.Action {
				return reducer.UpdateGroupOrderAction{Source: g, Destination: to[0]}
			}))
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addGroupActivate(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "activate <group>",
		Short: "Make a group the active one.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, "group activated", edit.Group(args[0], func(g int) reducer.Action {
				return reducer.UpdateActiveAction{Group: g}
			}))
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addGroupStamp(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stamp <group>",
		Short: "Mark a group as updated now.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, "group stamped", edit.Group(args[0], func(g int) reducer.Action {
				return reducer.UpdateTimestampAction{Group: g}
			}))
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addGroupAction(topLevel *cobra.Command, use, short, what string, build func(g int) reducer.Action) {
	cmd := &cobra.Command{
		Use:   use + " <group>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, what, edit.Group(args[0], build))
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
