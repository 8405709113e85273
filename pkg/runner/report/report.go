// Package report lists the groups touched within a recent time window.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/printers"
	"tableflip.dev/tabtree/pkg/timeutil"
)

// Report prints the activity report for the last Window, e.g. "3d".
type Report struct {
	App    *app.Service
	Window string
	JSON   bool
	Now    func() time.Time
	Out    io.Writer
}

// Do builds and prints the report.
func (n *Report) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not report, no session")
	}
	d, label, err := timeutil.ParseWindow(n.Window)
	if err != nil {
		return err
	}
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	until := now()
	result := n.App.Report(until.Add(-d), until)

	out := n.Out
	if out == nil {
		out = color.Output
	}
	if n.JSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Report(result, label)
	return nil
}
