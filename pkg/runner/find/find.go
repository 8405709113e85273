// Package find looks tabs up across every group.
package find

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/printers"
)

// Find ranks tabs by how well their title and url match Query.
type Find struct {
	App   *app.Service
	Query string
	// Limit caps the matches printed; 0 prints all.
	Limit int
	JSON  bool
	Width int
	Out   io.Writer
}

// Do prints the matches, best first.
func (n *Find) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not find, no session")
	}
	if strings.TrimSpace(n.Query) == "" {
		return errors.New("a query is required")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	matches := n.App.Find(n.Query)
	if n.Limit > 0 && len(matches) > n.Limit {
		matches = matches[:n.Limit]
	}
	if n.JSON {
		if matches == nil {
			matches = []app.Match{}
		}
		data, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	pp := printers.PrettyPrint{Width: n.Width, Out: out}
	pp.Matches(n.App.State(), matches)
	return nil
}
