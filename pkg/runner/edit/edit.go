// Package edit applies one change to the collection and reports the result.
package edit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/tabs"
)

// Change mutates the service. It reports whether anything changed.
type Change func(s *app.Service, c *tabs.Collection) (bool, error)

// Edit runs a Change and waits for it to be written.
type Edit struct {
	App    *app.Service
	Change Change
	// What names the change in the printed result, e.g. "group renamed".
	What string
	JSON bool
	Out  io.Writer
}

// Result is what --json prints.
type Result struct {
	What    string      `json:"what"`
	Changed bool        `json:"changed"`
	Reason  string      `json:"reason,omitempty"`
	Groups  int         `json:"groups"`
	Active  tabs.Active `json:"active"`
}

// Do applies the change, flushes and prints the outcome.
func (n *Edit) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not edit, no session")
	}
	if n.Change == nil {
		return errors.New("nothing to do")
	}
	changed, err := n.Change(n.App, n.App.State())
	if err != nil {
		return err
	}
	if err := n.App.Flush(ctx); err != nil {
		return err
	}
	if err := n.App.LastWriteError(); err != nil {
		return err
	}
	return n.print(Result{What: n.What, Changed: changed})
}

func (n *Edit) print(r Result) error {
	c := n.App.State()
	r.Groups = len(c.Available)
	r.Active = c.Active
	out := n.Out
	if out == nil {
		out = color.Output
	}
	if n.JSON {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	switch {
	case r.Reason != "":
		_, _ = color.New(color.FgYellow).Fprintf(out, "nothing changed: %s\n", r.Reason)
	case r.Changed:
		_, _ = color.New(color.FgGreen).Fprintln(out, r.What)
	default:
		_, _ = color.New(color.Faint).Fprintln(out, "nothing changed")
	}
	return nil
}

// Dispatch is a Change that applies a single action.
func Dispatch(a reducer.Action) Change {
	return func(s *app.Service, _ *tabs.Collection) (bool, error) {
		return s.Dispatch(a)
	}
}

// Group resolves ref and builds the action for that group.
func Group(ref string, build func(g int) reducer.Action) Change {
	return func(s *app.Service, c *tabs.Collection) (bool, error) {
		g, err := app.ResolveGroup(c, ref)
		if err != nil {
			return false, err
		}
		return s.Dispatch(build(g))
	}
}
