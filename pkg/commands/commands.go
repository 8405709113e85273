package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tabtree/pkg/commands/options"
	"tableflip.dev/tabtree/pkg/runner/edit"
	"tableflip.dev/tabtree/pkg/runner/session"
)

var (
	oo = &base.OutputOptions{}
	so = &options.StoreOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "tabtree",
		Short: base.Wrap80("Saved browser tab groups on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddStoreArgs(cmd, so)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addShow(topLevel)
	addFind(topLevel)
	addInfo(topLevel)
	addGroup(topLevel)
	addWindow(topLevel)
	addTab(topLevel)
	addDrag(topLevel)
	addGC(topLevel)
	addDedupe(topLevel)
	addReport(topLevel)
	addImport(topLevel)
	addExport(topLevel)
	addLive(topLevel)
	addMCP(topLevel)
	addKey(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
}

// withSession opens the configured session around fn and closes it, which
// flushes pending writes, before returning.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session.Session) error) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := so.Config()
	if err != nil {
		return oo.HandleError(err)
	}
	s, err := session.Open(ctx, session.Options{Config: cfg})
	if err != nil {
		return oo.HandleError(err)
	}
	err = fn(ctx, s)
	if cerr := s.Close(context.Background()); err == nil {
		err = cerr
	}
	return oo.HandleError(err)
}

// runEdit applies change and prints what happened.
func runEdit(cmd *cobra.Command, what string, change edit.Change) error {
	return withSession(cmd, func(ctx context.Context, s *session.Session) error {
		e := edit.Edit{App: s.Service, Change: change, What: what, JSON: oo.JSON, Out: cmd.OutOrStdout()}
		return e.Do(ctx)
	})
}

// indexes parses positional window and tab indexes.
func indexes(names []string, args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%s must be a non-negative index, got %q", names[i], a)
		}
		out[i] = v
	}
	return out, nil
}
