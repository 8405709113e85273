package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/logging"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/store"
	"tableflip.dev/tabtree/pkg/tabs"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	c := tabs.Seed("live", "dupes", 1, []tabs.Window{{Tabs: []tabs.Tab{{Title: "open", URL: "https://open"}}}})
	c.Available = append(c.Available,
		tabs.Group{ID: "g-read", Name: "Reading", Color: "#336699", UpdatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
			Windows: []tabs.Window{{Tabs: []tabs.Tab{{Title: "Go Blog", URL: "https://go.dev/blog"}, {Title: "News", URL: "https://news.example"}}}}},
		tabs.Group{ID: "g-work", Name: "Work", Color: tabs.DefaultColor, UpdatedAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC).UnixMilli(),
			Windows: []tabs.Window{{Tabs: []tabs.Tab{{Title: "Tracker", URL: "https://tracker.example"}}}}},
	)
	c.Active = tabs.Active{ID: "g-read", Index: 2}

	mem := store.NewMemory()
	data, err := tabs.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if err := mem.Set(context.Background(), data); err != nil {
		t.Fatal(err)
	}
	a, err := app.Open(context.Background(), app.Options{Transport: mem, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { a.Close(context.Background()) })
	svc := NewService(a)
	svc.Now = func() time.Time { return time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC) }
	return svc
}

func callTool(t *testing.T, svc *Service, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	srv := NewServer(svc, "", "")
	tool := srv.GetTool(name)
	if tool == nil {
		t.Fatalf("tool %q not registered", name)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := tool.Handler(context.Background(), req)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return res
}

func decodeResult(t *testing.T, res *mcp.CallToolResult, into any) {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool error: %+v", res.Content)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", res.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), into); err != nil {
		t.Fatalf("decode %s: %v", text.Text, err)
	}
}

func TestServiceOverviewAndGroup(t *testing.T) {
	svc := newTestService(t)
	overview, err := svc.Overview()
	if err != nil {
		t.Fatal(err)
	}
	if len(overview.Groups) != 4 || overview.Tabs != 4 || !overview.Groups[2].Active {
		t.Fatalf("unexpected overview %+v", overview)
	}
	if overview.Groups[2].Info != "2T | 1W" {
		t.Fatalf("info = %q", overview.Groups[2].Info)
	}

	g, err := svc.Group("work")
	if err != nil {
		t.Fatal(err)
	}
	if g.Index != 3 || len(g.WindowList) != 1 || g.WindowList[0].Tabs[0].Title != "Tracker" {
		t.Fatalf("unexpected group %+v", g)
	}
	if _, err := svc.Group("missing"); !errors.Is(err, app.ErrGroupNotFound) {
		t.Fatalf("missing group = %v", err)
	}
}

func TestServiceDispatchAndUndo(t *testing.T) {
	svc := newTestService(t)
	res, err := svc.Dispatch(reducer.UpdateName, json.RawMessage(`{"group":3,"name":"Office"}`))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Changed || !res.CanUndo || res.Action != reducer.UpdateName {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := svc.Dispatch(reducer.DeleteGroup, json.RawMessage(`{"group":0}`)); !errors.Is(err, reducer.ErrPermanentGroup) {
		t.Fatalf("deleting the live group = %v", err)
	}
	if _, err := svc.Dispatch("NOPE", nil); !errors.Is(err, reducer.ErrUnknownAction) {
		t.Fatalf("unknown action = %v", err)
	}

	res, err = svc.Undo()
	if err != nil || !res.Changed || res.CanUndo || !res.CanRedo {
		t.Fatalf("undo = %+v, %v", res, err)
	}
	g, _ := svc.Group("3")
	if g.Name != "Work" {
		t.Fatalf("name after undo = %q", g.Name)
	}
}

func TestServiceColors(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.AddGroup("new", "chartreuse"); err == nil {
		t.Fatalf("expected invalid color error")
	}
	if _, err := svc.Recolor("Reading", "#F0A"); err != nil {
		t.Fatal(err)
	}
	g, _ := svc.Group("Reading")
	if g.Color != "#ff00aa" {
		t.Fatalf("color = %q", g.Color)
	}
}

func TestServiceReport(t *testing.T) {
	svc := newTestService(t)
	r, err := svc.Report("2d")
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Items) != 1 || r.Items[0].ID != "g-work" {
		t.Fatalf("report = %+v", r.Items)
	}
	if _, err := svc.Report("soon"); err == nil {
		t.Fatalf("expected window error")
	}
}

func TestToolsDeleteTabCascade(t *testing.T) {
	svc := newTestService(t)
	var res Result
	decodeResult(t, callTool(t, svc, "delete_tab", map[string]any{"group": 3, "window": 0, "tab": 0}), &res)
	if !res.Changed || res.Groups != 3 {
		t.Fatalf("unexpected result %+v", res)
	}

	bad := callTool(t, svc, "delete_tab", map[string]any{"group": 9, "window": 0, "tab": 0})
	if !bad.IsError {
		t.Fatalf("expected tool error for missing group")
	}
}

func TestToolsDispatchAction(t *testing.T) {
	svc := newTestService(t)
	var res Result
	decodeResult(t, callTool(t, svc, "dispatch_action", map[string]any{
		"type":    string(reducer.UpdateGroupOrder),
		"payload": map[string]any{"source": 3, "destination": 2},
	}), &res)
	if !res.Changed || res.Active.ID != "g-read" || res.Active.Index != 3 {
		t.Fatalf("active did not follow the move: %+v", res)
	}
}

func TestToolsDispatchCombinePrunesSource(t *testing.T) {
	svc := newTestService(t)
	var res Result
	decodeResult(t, callTool(t, svc, "dispatch_action", map[string]any{
		"type":    string(reducer.UpdateWindowsFromSidePanelDnD),
		"payload": map[string]any{"group": 3, "window": 0, "destination": 2},
	}), &res)
	if !res.Changed || res.Groups != 3 {
		t.Fatalf("emptied group was not pruned: %+v", res)
	}
	if _, err := svc.Group("Work"); err == nil {
		t.Fatalf("empty Work group still resolvable")
	}
	reading, err := svc.Group("Reading")
	if err != nil || len(reading.WindowList) != 2 || reading.WindowList[0].Tabs[0].Title != "Tracker" {
		t.Fatalf("combined window missing: %+v, %v", reading, err)
	}
}

func TestToolsDrop(t *testing.T) {
	svc := newTestService(t)
	var res Result
	decodeResult(t, callTool(t, svc, "drop", map[string]any{
		"draggable": "tab-1-window-0",
		"combine":   "group-3",
	}), &res)
	if !res.Changed || res.Action != reducer.UpdateTabsFromSidePanelDnD {
		t.Fatalf("unexpected drop %+v", res)
	}
	work, _ := svc.Group("Work")
	if work.Tabs != 2 || work.WindowList[0].Tabs[0].Title != "News" {
		t.Fatalf("combined tab missing: %+v", work)
	}

	decodeResult(t, callTool(t, svc, "drop", map[string]any{
		"draggable": "tab-0-window-0",
		"combine":   "group-0",
	}), &res)
	if res.Changed || res.Reason == "" {
		t.Fatalf("combine onto live tile should be refused: %+v", res)
	}
}

func TestToolsFindTabs(t *testing.T) {
	svc := newTestService(t)
	var out struct {
		Matches []app.Match `json:"matches"`
		Count   int         `json:"count"`
	}
	decodeResult(t, callTool(t, svc, "find_tabs", map[string]any{"query": "goblog"}), &out)
	if out.Count != 1 || out.Matches[0].Title != "Go Blog" || out.Matches[0].Group != 2 {
		t.Fatalf("unexpected matches %+v", out)
	}
}
