package edit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/logging"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/store"
	"tableflip.dev/tabtree/pkg/tabs"
)

func openApp(t *testing.T) *app.Service {
	t.Helper()
	c := tabs.Seed("live", "dupes", 1, nil)
	c.Available = append(c.Available,
		tabs.Group{ID: "a", Name: "Reading", Color: tabs.DefaultColor, Windows: []tabs.Window{{Tabs: []tabs.Tab{{Title: "one", URL: "https://one"}}}}},
		tabs.Group{ID: "b", Name: "Work", Color: tabs.DefaultColor, Windows: []tabs.Window{{Tabs: []tabs.Tab{{Title: "two", URL: "https://two"}, {Title: "three", URL: "https://three"}}}}},
	)
	c.Active = tabs.Active{ID: "b", Index: 3}
	data, err := tabs.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	mem := store.NewMemory()
	if err := mem.Set(context.Background(), data); err != nil {
		t.Fatal(err)
	}
	s, err := app.Open(context.Background(), app.Options{Transport: mem, Logger: logging.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestEditGroup(t *testing.T) {
	color.NoColor = true
	s := openApp(t)
	var out bytes.Buffer
	e := Edit{
		App:  s,
		What: "group renamed",
		Out:  &out,
		Change: Group("reading", func(g int) reducer.Action {
			return reducer.UpdateNameAction{Group: g, Name: "Later"}
		}),
	}
	if err := e.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.State().Available[2].Name; got != "Later" {
		t.Fatalf("name = %q", got)
	}
	if out.String() != "group renamed\n" {
		t.Fatalf("output = %q", out.String())
	}

	e.Change = Group("missing", func(g int) reducer.Action { return reducer.UpdateActiveAction{Group: g} })
	if err := e.Do(context.Background()); !errors.Is(err, app.ErrGroupNotFound) {
		t.Fatalf("missing group = %v", err)
	}
}

func TestEditJSON(t *testing.T) {
	s := openApp(t)
	var out bytes.Buffer
	e := Edit{App: s, What: "x", JSON: true, Out: &out, Change: Dispatch(reducer.UpdateActiveAction{Group: 3})}
	if err := e.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	var r Result
	if err := json.Unmarshal(out.Bytes(), &r); err != nil {
		t.Fatal(err)
	}
	if r.Changed || r.Groups != 4 || r.Active.ID != "b" {
		t.Fatalf("activating the active group should change nothing: %+v", r)
	}
}

func TestDropResult(t *testing.T) {
	tests := []struct {
		name    string
		drop    Drop
		wantErr bool
		dst     string
		index   int
		combine string
	}{
		{name: "into list", drop: Drop{Draggable: "tab-0-window-0", To: "tabs-1:2"}, dst: "tabs-1", index: 2},
		{name: "no index", drop: Drop{Draggable: "group-3", To: "sidepanel"}, dst: "sidepanel"},
		{name: "new window", drop: Drop{Draggable: "tab-1-window-0", To: "tabs-new"}, dst: app.NewWindowTarget},
		{name: "combine", drop: Drop{Draggable: "window-0-group-3", Combine: "group-2"}, combine: "group-2"},
		{name: "new group", drop: Drop{Draggable: "window-0-group-3", Combine: "group-new"}, combine: app.NewGroupTarget},
		{name: "bad draggable", drop: Drop{Draggable: "tab-x"}, wantErr: true},
		{name: "bad droppable", drop: Drop{Draggable: "group-3", To: "shelf:1"}, wantErr: true},
		{name: "bad index", drop: Drop{Draggable: "group-3", To: "sidepanel:-1"}, wantErr: true},
		{name: "combine onto window", drop: Drop{Draggable: "group-3", Combine: "window-0-group-2"}, wantErr: true},
		{name: "both", drop: Drop{Draggable: "group-3", To: "sidepanel", Combine: "group-2"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.drop.Result()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", r)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tt.dst != "" && (r.Destination == nil || r.Destination.DroppableID != tt.dst || r.Destination.Index != tt.index) {
				t.Fatalf("destination = %+v", r.Destination)
			}
			if tt.combine != "" && (r.Combine == nil || r.Combine.DraggableID != tt.combine) {
				t.Fatalf("combine = %+v", r.Combine)
			}
		})
	}
}

func TestDropMovesTab(t *testing.T) {
	color.NoColor = true
	s := openApp(t)
	var out bytes.Buffer
	d := Drop{Edit: Edit{App: s, Out: &out}, Draggable: "tab-1-window-0", To: "tabs-0:0"}
	if err := d.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := s.State().Available[3].Windows[0].Tabs
	if got[0].Title != "three" || got[1].Title != "two" {
		t.Fatalf("tab not moved: %+v", got)
	}
	if out.String() != "dropped\n" {
		t.Fatalf("output = %q", out.String())
	}
}
