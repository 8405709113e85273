package commands

import (
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/runner/edit"
	"tableflip.dev/tabtree/pkg/tabs"
)

func addWindow(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "window",
		Short: base.Wrap80("Edit the windows of a group. Windows are addressed by group and index."),
		Run: func(cmd *cobra.Command, args []string) {
			// a sub-command is required.
			_ = cmd.Help()
		},
	}

	addWindowAdd(cmd)
	addWindowDelete(cmd)
	addWindowMove(cmd)
	addWindowStar(cmd)
	addWindowName(cmd)
	addWindowCombine(cmd)

	for _, sub := range cmd.Commands() {
		sub.ValidArgsFunction = completeGroups
	}

	topLevel.AddCommand(cmd)
}

func addWindowAdd(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "add <group>",
		Short: "Append an empty window to a group.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, "window added", edit.Group(args[0], func(g int) reducer.Action {
				return reducer.AddWindowAction{Group: g}
			}))
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addWindowDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "delete <group> <window>",
		Aliases: []string{"rm"},
		Short:   "Delete a window, and its group when that leaves it empty.",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := indexes([]string{"window"}, args[1:])
			if err != nil {
				return oo.HandleError(err)
			}
			return runEdit(cmd, "window deleted", func(s *app.Service, c *tabs.Collection) (bool, error) {
				g, err := app.ResolveGroup(c, args[0])
				if err != nil {
					return false, err
				}
				return true, s.DeleteWindow(g, at[0])
			})
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addWindowMove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "move <group> <window> <index>",
		Short: "Move a window within its group.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := indexes([]string{"window", "index"}, args[1:])
			if err != nil {
				return oo.HandleError(err)
			}
			return runEdit(cmd, "window moved", edit.Group(args[0], func(g int) reducer.Action {
				return reducer.UpdateWindowsFromGroupDnDAction{Group: g, Source: at[0], Destination: at[1]}
			}))
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addWindowStar(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "star <group> <window>",
		Short: "Toggle the starred flag of a window.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := indexes([]string{"window"}, args[1:])
			if err != nil {
				return oo.HandleError(err)
			}
			return runEdit(cmd, "window star toggled", edit.Group(args[0], func(g int) reducer.Action {
				return reducer.ToggleWindowStarredAction{Group: g, Window: at[0]}
			}))
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addWindowName(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "name <group> <window> [name]",
		Short: "Name a window. An empty name clears it.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := indexes([]string{"window"}, args[1:2])
			if err != nil {
				return oo.HandleError(err)
			}
			name := strings.Join(args[2:], " ")
			return runEdit(cmd, "window named", edit.Group(args[0], func(g int) reducer.Action {
				return reducer.UpdateWindowNameAction{Group: g, Window: at[0], Name: name}
			}))
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addWindowCombine(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "combine <group> <window> <destination-group>",
		Short: "Move a window into another group.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := indexes([]string{"window"}, args[1:2])
			if err != nil {
				return oo.HandleError(err)
			}
			return runEdit(cmd, "window combined", func(s *app.Service, c *tabs.Collection) (bool, error) {
				g, err := app.ResolveGroup(c, args[0])
				if err != nil {
					return false, err
				}
				dst, err := app.ResolveGroup(c, args[2])
				if err != nil {
					return false, err
				}
				return s.Combine(g, at[0], -1, dst)
			})
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
