package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/tabtree/pkg/runner/edit"
	"tableflip.dev/tabtree/pkg/tabs"
)

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--backend", "diskv", "--path", dir))
	err := cmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := execute(t, dir, args...)
	if err != nil {
		t.Fatalf("tabtree %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func showGroup(t *testing.T, dir, ref string) tabs.Group {
	t.Helper()
	var g tabs.Group
	out := mustExecute(t, dir, "show", ref, "-o", "json")
	if err := json.Unmarshal([]byte(out), &g); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	return g
}

func TestGroupLifecycle(t *testing.T) {
	dir := t.TempDir()

	var res edit.Result
	out := mustExecute(t, dir, "group", "add", "Reading", "--color", "369", "--json")
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if !res.Changed || res.Groups != 3 {
		t.Fatalf("unexpected result %+v", res)
	}

	g := showGroup(t, dir, "reading")
	if g.Color != "#336699" || len(g.Windows) != 0 {
		t.Fatalf("unexpected group %+v", g)
	}

	mustExecute(t, dir, "group", "rename", "Reading", "Later", "on")
	mustExecute(t, dir, "window", "add", "Later on")
	mustExecute(t, dir, "window", "name", "2", "0", "papers")
	g = showGroup(t, dir, "2")
	if g.Name != "Later on" || len(g.Windows) != 1 || g.Windows[0].Name != "papers" {
		t.Fatalf("unexpected group %+v", g)
	}

	mustExecute(t, dir, "gc")
	if _, err := execute(t, dir, "show", "Later on"); err == nil {
		t.Fatalf("gc should have removed the emptied group")
	}
}

func TestPermanentGroupRefused(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "group", "delete", "0")
	if err == nil || !strings.Contains(err.Error(), "permanent") {
		t.Fatalf("deleting group 0 = %v", err)
	}
}

func TestInvalidArguments(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, dir, "group", "add", "x", "--color", "chartreuse"); err == nil {
		t.Fatalf("expected invalid color error")
	}
	if _, err := execute(t, dir, "window", "delete", "1", "first"); err == nil {
		t.Fatalf("expected invalid index error")
	}
	if _, err := execute(t, dir, "drag", "tab-0-window-0", "--to", "tabs-0", "--combine", "group-1"); err == nil {
		t.Fatalf("expected exclusive flags error")
	}
}

func TestKeyAndInfo(t *testing.T) {
	dir := t.TempDir()
	out := mustExecute(t, dir, "key")
	if !strings.Contains(out, "sidepanel") || !strings.Contains(out, "starred window") {
		t.Fatalf("key output:\n%s", out)
	}
	out = mustExecute(t, dir, "info")
	if !strings.Contains(out, "diskv") || !strings.Contains(out, tabs.LiveGroupName) {
		t.Fatalf("info output:\n%s", out)
	}
}
