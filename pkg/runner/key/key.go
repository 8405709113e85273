// Package key prints the legend of printer marks and draggable ids.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/drag"
	"tableflip.dev/tabtree/pkg/printers"
)

// Key prints what the symbols of "show" mean and how items are addressed.
type Key struct {
	Out io.Writer
}

// Do renders the marks and id tables.
func (k *Key) Do(ctx context.Context) error {
	out := k.Out
	if out == nil {
		out = color.Output
	}
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Mark"), bold.Sprint("Meaning"))
	for _, m := range printers.Marks() {
		tbl.AddRow(m.Symbol, m.Meaning)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = fmt.Fprintln(out, "")

	ids := uitable.New()
	ids.Separator = "  "
	ids.AddRow(bold.Sprint("Id"), bold.Sprint("Names"))
	ids.AddRow(drag.TabID(1, 2), "tab 2 of window 1 in the active group")
	ids.AddRow(drag.WindowID(3, 0), "window 0 of group 3")
	ids.AddRow(drag.GroupID(3), "group 3, or its tile as a combine target")
	ids.AddRow(drag.TabsDroppable(1), "the tabs of window 1 in the active group")
	ids.AddRow(app.NewWindowTarget, "a new window in the active group")
	ids.AddRow(drag.WindowsDroppable(3), "the windows of group 3")
	ids.AddRow(drag.SidePanelDroppable, "the list of groups")
	ids.AddRow(app.NewGroupTarget, "a new group, as a combine target")
	_, _ = fmt.Fprintln(out, ids)
	return nil
}
