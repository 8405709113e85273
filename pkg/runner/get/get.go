// Package get prints the collection, or one group of it.
package get

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/printers"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Get renders groups from a session.
type Get struct {
	App *app.Service
	// Group is an index, id or name. Empty lists every group.
	Group string
	// Tree prints windows and tabs for every group.
	Tree   bool
	ShowID bool
	Output string
	Width  int
	Out    io.Writer
}

// Do prints the selection.
func (n *Get) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not get, no session")
	}
	c := n.App.State()
	group := -1
	var selected any = c
	if n.Group != "" {
		i, err := app.ResolveGroup(c, n.Group)
		if err != nil {
			return err
		}
		group = i
		selected = c.Available[i]
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	switch n.Output {
	case OutputJSON:
		data, err := json.MarshalIndent(selected, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case OutputYAML:
		data, err := yaml.Marshal(selected)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "", OutputText:
	default:
		return fmt.Errorf("unknown output format %q", n.Output)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Width: n.Width, Out: out}
	switch {
	case group >= 0:
		pp.Group(c, group)
	case n.Tree:
		pp.Tree(c)
	default:
		pp.Groups(c)
	}
	return nil
}
