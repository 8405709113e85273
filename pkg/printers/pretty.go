package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/drag"
	"tableflip.dev/tabtree/pkg/tabs"
	"tableflip.dev/tabtree/pkg/timeutil"
)

const defaultWidth = 100

// PrettyPrint renders collections for a terminal.
type PrettyPrint struct {
	// ShowID prefixes rows with their draggable ids.
	ShowID bool
	// Width bounds tab lines; 0 means 100 columns.
	Width int
	Out   io.Writer
	Now   func() time.Time
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now == nil {
		return time.Now()
	}
	return pp.Now()
}

func (pp *PrettyPrint) width() uint {
	if pp.Width <= 0 {
		return defaultWidth
	}
	return uint(pp.Width)
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

// Groups prints one row per group.
func (pp *PrettyPrint) Groups(c *tabs.Collection) {
	tbl := uitable.New()
	tbl.Separator = "  "
	header := []interface{}{"", "#", "NAME", "INFO", "UPDATED"}
	if pp.ShowID {
		header = append(header, "ID")
	}
	tbl.AddRow(header...)
	now := pp.now()
	for i, g := range c.Available {
		marker := " "
		if c.Active.Index == i {
			marker = activeMark
		}
		row := []interface{}{marker, i, g.Name, tabs.Info(g), timeutil.Ago(g.UpdatedAt, now)}
		if pp.ShowID {
			row = append(row, g.ID)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Tree prints every group with its windows and tabs.
func (pp *PrettyPrint) Tree(c *tabs.Collection) {
	for i := range c.Available {
		pp.Group(c, i)
	}
}

// Group prints group i with its windows and tabs.
func (pp *PrettyPrint) Group(c *tabs.Collection, i int) {
	if i < 0 || i >= len(c.Available) {
		return
	}
	g := c.Available[i]
	w := pp.out()
	faint := color.New(color.Faint)
	bold := color.New(color.Bold)

	if pp.ShowID {
		_, _ = faint.Fprintf(w, "%s ", drag.GroupID(i))
	}
	_, _ = fmt.Fprintf(w, "%s ", Swatch(g.Color))
	_, _ = bold.Fprint(w, g.Name)
	_, _ = faint.Fprintf(w, "  %s · %s", tabs.Info(g), timeutil.Ago(g.UpdatedAt, pp.now()))
	if c.Active.Index == i {
		_, _ = color.New(color.FgGreen).Fprint(w, "  (active)")
	}
	_, _ = fmt.Fprintln(w)

	if len(g.Windows) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(w, "  none")
	}
	// tab ids only address the active group
	active := c.Active.Index == i
	for wi, win := range g.Windows {
		pp.window(w, i, wi, win, active)
	}
	_, _ = fmt.Fprintln(w)
}

func (pp *PrettyPrint) window(w io.Writer, g, wi int, win tabs.Window, active bool) {
	faint := color.New(color.Faint)
	_, _ = fmt.Fprint(w, "  ")
	if pp.ShowID {
		_, _ = faint.Fprintf(w, "%s ", drag.WindowID(g, wi))
	}
	label := win.Name
	if label == "" {
		label = "window " + strconv.Itoa(wi)
	}
	_, _ = fmt.Fprint(w, label)
	if win.Starred {
		_, _ = color.New(color.FgYellow).Fprint(w, " "+starMark)
	}
	var flags []string
	if win.Focused {
		flags = append(flags, "focused")
	}
	if win.Incognito {
		flags = append(flags, "incognito")
	}
	if len(flags) > 0 {
		_, _ = faint.Fprintf(w, " (%s)", strings.Join(flags, ", "))
	}
	_, _ = fmt.Fprintln(w)

	for ti, t := range win.Tabs {
		prefix := "    "
		if pp.ShowID && active {
			prefix += drag.TabID(wi, ti) + " "
		}
		if t.Pinned {
			prefix += pinnedMark + " "
		}
		line := tabLine(t)
		room := pp.width()
		if uint(len(prefix)) < room {
			room -= uint(len(prefix))
		}
		_, _ = faint.Fprint(w, prefix)
		_, _ = fmt.Fprintln(w, truncate.StringWithTail(line, room, ellipsisTail))
	}
}

func tabLine(t tabs.Tab) string {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return t.URL
	}
	if t.URL == "" {
		return title
	}
	return title + " " + color.New(color.Faint).Sprint(t.URL)
}

// Matches prints find results.
func (pp *PrettyPrint) Matches(c *tabs.Collection, matches []app.Match) {
	if len(matches) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(pp.out(), "no matching tabs")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = pp.width() / 2
	tbl.AddRow("GROUP", "WINDOW", "TAB", "TITLE", "URL")
	for _, m := range matches {
		group := strconv.Itoa(m.Group)
		if m.Group < len(c.Available) {
			group = fmt.Sprintf("%d %s", m.Group, c.Available[m.Group].Name)
		}
		tbl.AddRow(group, m.Window, m.Tab, m.Title, m.URL)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Report prints an activity report.
func (pp *PrettyPrint) Report(result app.ReportResult, label string) {
	w := pp.out()
	since := result.Since.Local().Format("2006-01-02 15:04")
	until := result.Until.Local().Format("2006-01-02 15:04")
	_, _ = fmt.Fprintf(w, "Report · last %s (%s → %s)\n", label, since, until)
	if len(result.Items) == 0 {
		_, _ = fmt.Fprintln(w, "  No groups were updated in this window.")
		_, _ = fmt.Fprintln(w)
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("#", "NAME", "TABS", "WINDOWS", "UPDATED")
	for _, item := range result.Items {
		tbl.AddRow(item.Index, item.Name, item.Tabs, item.Windows, item.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintf(w, "%d tabs across %d groups\n", result.Total, len(result.Items))
}
