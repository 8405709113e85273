package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/runner/edit"
	"tableflip.dev/tabtree/pkg/tabs"
)

func addGC(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Drop empty windows, then groups left without windows.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEdit(cmd, "empty windows and groups cleared", func(s *app.Service, _ *tabs.Collection) (bool, error) {
				return s.GC()
			})
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addDedupe(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: base.Wrap80("Rebuild the Duplicates group from urls saved more than once."),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEdit(cmd, "duplicates updated", edit.Dispatch(reducer.UpdateDuplicatesAction{}))
		},
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
