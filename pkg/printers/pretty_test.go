package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/tabs"
)

func fixture() *tabs.Collection {
	now := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	c := tabs.Seed("live", "dupes", now.UnixMilli(), nil)
	c.Available = append(c.Available, tabs.Group{
		ID: "g-read", Name: "Reading", Color: "#ff0000", UpdatedAt: now.Add(-48 * time.Hour).UnixMilli(),
		Windows: []tabs.Window{{
			Name:    "papers",
			Starred: true,
			Tabs: []tabs.Tab{
				{Title: "Go Blog", URL: "https://go.dev/blog", Pinned: true},
				{Title: strings.Repeat("long ", 40), URL: "https://example.com"},
			},
		}},
	})
	c.Active = tabs.Active{ID: "g-read", Index: 2}
	return c
}

func newPrinter(buf *bytes.Buffer) *PrettyPrint {
	color.NoColor = true
	return &PrettyPrint{
		Out:   buf,
		Width: 60,
		Now:   func() time.Time { return time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC) },
	}
}

func TestGroupTree(t *testing.T) {
	var buf bytes.Buffer
	pp := newPrinter(&buf)
	pp.ShowID = true
	pp.Group(fixture(), 2)

	out := buf.String()
	for _, want := range []string{"group-2", "Reading", "2T | 1W", "2d ago", "(active)", "window-0-group-2", "papers ★", "tab-0-window-0", "^ Go Blog https://go.dev/blog"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if len([]rune(line)) > 60 {
			t.Errorf("line not truncated: %q", line)
		}
	}
}

func TestGroupsTable(t *testing.T) {
	var buf bytes.Buffer
	newPrinter(&buf).Groups(fixture())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("want header and 3 rows, got:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[3], "*") || !strings.Contains(lines[3], "Reading") {
		t.Errorf("active marker missing: %q", lines[3])
	}
}

func TestMatches(t *testing.T) {
	var buf bytes.Buffer
	c := fixture()
	newPrinter(&buf).Matches(c, app.Find(c, "goblog"))
	if !strings.Contains(buf.String(), "2 Reading") {
		t.Errorf("unexpected matches:\n%s", buf.String())
	}

	buf.Reset()
	newPrinter(&buf).Matches(c, nil)
	if !strings.Contains(buf.String(), "no matching tabs") {
		t.Errorf("unexpected empty output: %q", buf.String())
	}
}

func TestNearest(t *testing.T) {
	tests := map[string]color.Attribute{
		"#ff0000": color.FgHiRed,
		"#0000ee": color.FgBlue,
		"#808080": color.FgHiBlack,
		"bogus":   color.FgHiBlack,
	}
	for hex, want := range tests {
		if got := Nearest(hex); got != want {
			t.Errorf("Nearest(%q) = %v, want %v", hex, got, want)
		}
	}
}
