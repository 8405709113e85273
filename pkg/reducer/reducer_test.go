package reducer

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"tableflip.dev/tabtree/pkg/tabs"
)

func testReducer() *Reducer {
	var clock int64 = 1000
	ids := 0
	return &Reducer{
		Now: func() int64 {
			clock++
			return clock
		},
		NewID: func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		},
	}
}

func tab(name string) tabs.Tab {
	return tabs.Tab{Title: name, URL: "https://" + name}
}

func window(names ...string) tabs.Window {
	w := tabs.Window{Tabs: []tabs.Tab{}}
	for _, n := range names {
		w.Tabs = append(w.Tabs, tab(n))
	}
	return w
}

func group(id string, windows ...tabs.Window) tabs.Group {
	if windows == nil {
		windows = []tabs.Window{}
	}
	return tabs.Group{ID: id, Name: id, Color: tabs.DefaultColor, Windows: windows}
}

// fixture is [live, dupes, a, b, c] with c active.
func fixture() *tabs.Collection {
	c := tabs.Seed("live", "dupes", 1, []tabs.Window{window("l1", "l2")})
	c.Available = append(c.Available,
		group("a", window("a1", "a2"), window("a3")),
		group("b", window("b1")),
		group("c", window("c1", "c2", "c3")),
	)
	c.Active = tabs.Active{ID: "c", Index: 4}
	return c
}

func mustCheck(t *testing.T, c *tabs.Collection) {
	t.Helper()
	if err := c.Check(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

func titles(w tabs.Window) []string {
	out := make([]string, len(w.Tabs))
	for i, t := range w.Tabs {
		out[i] = t.Title
	}
	return out
}

func ids(c *tabs.Collection) []string {
	out := make([]string, len(c.Available))
	for i, g := range c.Available {
		out[i] = g.ID
	}
	return out
}

func tabMultiset(c *tabs.Collection) []string {
	out := []string{}
	c.Walk(func(_ tabs.Location, t tabs.Tab) bool {
		out = append(out, t.Title)
		return true
	})
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type bogusAction struct{}

func (bogusAction) Type() Type                          { return "BOGUS" }
func (bogusAction) validate(c *tabs.Collection) error { return nil }

func TestIdentity(t *testing.T) {
	r := testReducer()
	c := fixture()
	for name, a := range map[string]Action{
		"unknown":              bogusAction{},
		"out of range":         DeleteTabAction{Group: 2, Window: 9, Tab: 0},
		"permanent delete":     DeleteGroupAction{Group: 0},
		"duplicates delete":    DeleteGroupAction{Group: 1},
		"combine into live":    UpdateTabsFromSidePanelDnDAction{Group: 2, Window: 0, Tab: 0, Destination: 0},
		"same position":        UpdateGroupOrderAction{Source: 3, Destination: 3},
		"move live":            UpdateGroupOrderAction{Source: 0, Destination: 2},
		"rename to same":       UpdateNameAction{Group: 2, Name: "a"},
		"nothing to clear":     ClearEmptyGroupsAction{},
		"unite single window":  UniteWindowsAction{Group: 3},
		"merge live with self": MergeWithCurrentAction{Group: 0},
	} {
		t.Run(name, func(t *testing.T) {
			if got := r.Reduce(c, a); got != c {
				t.Fatalf("expected identical state for %s", a.Type())
			}
		})
	}
	if got := r.Reduce(nil, AddGroupAction{}); got != nil {
		t.Fatalf("nil state should stay nil")
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	r := testReducer()
	c := fixture()
	before, _ := tabs.Marshal(c)
	_ = r.Reduce(c, UpdateTabsFromSidePanelDnDAction{Group: 2, Window: 0, Tab: 0, Destination: 3})
	_ = r.Reduce(c, DeleteGroupAction{Group: 3})
	after, _ := tabs.Marshal(c)
	if string(before) != string(after) {
		t.Fatalf("input collection was modified")
	}
}

func TestValidate(t *testing.T) {
	c := fixture()
	tests := []struct {
		name   string
		action Action
		want   error
	}{
		{"ok", DeleteTabAction{Group: 2, Window: 0, Tab: 1}, nil},
		{"tab range", DeleteTabAction{Group: 2, Window: 0, Tab: 2}, ErrOutOfRange},
		{"permanent", DeleteGroupAction{Group: 1}, ErrPermanentGroup},
		{"combine live", UpdateWindowsFromSidePanelDnDAction{Group: 2, Window: 0, Destination: 0}, ErrInvalidDestination},
		{"merge live", ReplaceWithCurrentAction{Group: 0}, ErrPermanentGroup},
		{"scaffold", Scaffold(AddWindowAction{Group: 9}), ErrOutOfRange},
		{"nil", nil, ErrUnknownAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(c, tt.action)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAddGroupAndWindow(t *testing.T) {
	r := testReducer()
	c := r.Reduce(fixture(), AddGroupAction{})
	g := c.Available[len(c.Available)-1]
	if g.ID != "id-1" || g.Name != DefaultGroupName || len(g.Windows) != 0 || g.Windows == nil {
		t.Fatalf("unexpected new group %+v", g)
	}
	c = r.Reduce(c, AddWindowAction{Group: 2})
	if n := len(c.Available[2].Windows); n != 3 || len(c.Available[2].Windows[2].Tabs) != 0 {
		t.Fatalf("expected empty window appended, got %d windows", n)
	}
	mustCheck(t, c)
}

func TestDeleteGroupActive(t *testing.T) {
	r := testReducer()
	tests := []struct {
		name    string
		active  int
		deleted int
		want    tabs.Active
	}{
		{"below active", 4, 2, tabs.Active{ID: "c", Index: 3}},
		{"active", 4, 4, tabs.Active{ID: "b", Index: 3}},
		{"above active", 2, 4, tabs.Active{ID: "a", Index: 2}},
		{"active first user group", 2, 2, tabs.Active{ID: "dupes", Index: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fixture()
			c.Active = tabs.Active{ID: c.Available[tt.active].ID, Index: tt.active}
			got := r.Reduce(c, DeleteGroupAction{Group: tt.deleted})
			if got.Active != tt.want {
				t.Fatalf("active = %+v, want %+v", got.Active, tt.want)
			}
			mustCheck(t, got)
		})
	}
}

func TestDeleteTouchesOwner(t *testing.T) {
	r := testReducer()
	c := fixture()
	got := r.Reduce(c, DeleteTabAction{Group: 2, Window: 0, Tab: 0})
	if got.Available[2].UpdatedAt == c.Available[2].UpdatedAt {
		t.Fatalf("updatedAt not refreshed")
	}
	if got.Available[3].UpdatedAt != c.Available[3].UpdatedAt {
		t.Fatalf("unrelated group touched")
	}
	if !equalStrings(titles(got.Available[2].Windows[0]), []string{"a2"}) {
		t.Fatalf("unexpected tabs %v", titles(got.Available[2].Windows[0]))
	}
	got = r.Reduce(got, DeleteWindowAction{Group: 2, Window: 1})
	if len(got.Available[2].Windows) != 1 {
		t.Fatalf("window not removed")
	}
}

// Deleting the only tab of the only window prunes the window, then the group,
// and the active pointer falls back to the group above.
func TestDeleteCascade(t *testing.T) {
	r := testReducer()
	c := fixture()
	c.Active = tabs.Active{ID: "b", Index: 3}
	c = r.Reduce(c, DeleteTabAction{Group: 3, Window: 0, Tab: 0})
	c = r.Reduce(c, ClearEmptyWindowsAction{Group: 3})
	if len(c.Available[3].Windows) != 0 {
		t.Fatalf("empty window not pruned")
	}
	c = r.Reduce(c, ClearEmptyGroupsAction{})
	if !equalStrings(ids(c), []string{"live", "dupes", "a", "c"}) {
		t.Fatalf("unexpected groups %v", ids(c))
	}
	if c.Active != (tabs.Active{ID: "a", Index: 2}) {
		t.Fatalf("active = %+v", c.Active)
	}
	mustCheck(t, c)
}

func TestClearEmptyGroups(t *testing.T) {
	r := testReducer()
	c := fixture()
	c.Available[2].Windows = []tabs.Window{}
	c.Available[3].Windows = []tabs.Window{}
	c.Active = tabs.Active{ID: "b", Index: 3}

	once := r.Reduce(c, ClearEmptyGroupsAction{})
	if !equalStrings(ids(once), []string{"live", "dupes", "c"}) {
		t.Fatalf("unexpected groups %v", ids(once))
	}
	// both groups above the active one went away; the nearest survivor is dupes
	if once.Active != (tabs.Active{ID: "dupes", Index: 1}) {
		t.Fatalf("active = %+v", once.Active)
	}
	if twice := r.Reduce(once, ClearEmptyGroupsAction{}); twice != once {
		t.Fatalf("CLEAR_EMPTY_GROUPS is not idempotent")
	}

	c = fixture()
	c.Available[2].Windows = []tabs.Window{}
	got := r.Reduce(c, ClearEmptyGroupsAction{})
	if got.Active != (tabs.Active{ID: "c", Index: 3}) {
		t.Fatalf("surviving active should follow its id, got %+v", got.Active)
	}
}

// Moving group 3 to 1-relative slot keeps the active pointer on the same id.
func TestGroupOrderFollowsActive(t *testing.T) {
	r := testReducer()
	c := fixture()
	c.Available = append(c.Available, group("d", window("d1")))
	c.Active = tabs.Active{ID: "b", Index: 3}

	got := r.Reduce(c, UpdateGroupOrderAction{Source: 3, Destination: 1})
	if !equalStrings(ids(got), []string{"live", "b", "dupes", "a", "c", "d"}) {
		t.Fatalf("unexpected order %v", ids(got))
	}
	if got.Active != (tabs.Active{ID: "b", Index: 1}) {
		t.Fatalf("active = %+v", got.Active)
	}

	c.Active = tabs.Active{ID: "dupes", Index: 1}
	got = r.Reduce(c, UpdateGroupOrderAction{Source: 3, Destination: 1})
	if got.Active != (tabs.Active{ID: "dupes", Index: 2}) {
		t.Fatalf("shifted active = %+v", got.Active)
	}
	mustCheck(t, got)
}

func TestWindowReorderStarred(t *testing.T) {
	starred := func(names ...string) tabs.Window {
		w := window(names...)
		w.Starred = true
		return w
	}
	tests := []struct {
		name     string
		src, dst int
		want     bool
	}{
		{"into cluster", 3, 1, true},
		{"to the bottom", 0, 3, false},
		{"to the top", 2, 0, true},
		{"on the boundary", 3, 2, false},
		{"among unstarred", 0, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testReducer()
			c := fixture()
			c.Available[2].Windows = []tabs.Window{starred("s1"), starred("s2"), window("u1"), window("u2")}
			got := r.Reduce(c, UpdateWindowsFromGroupDnDAction{Group: 2, Source: tt.src, Destination: tt.dst})
			moved := c.Available[2].Windows[tt.src].Tabs[0].Title
			w := got.Available[2].Windows[tt.dst]
			if w.Tabs[0].Title != moved {
				t.Fatalf("window %s not at %d", moved, tt.dst)
			}
			if w.Starred != tt.want {
				t.Fatalf("starred = %v, want %v", w.Starred, tt.want)
			}
			// starred windows stay contiguous
			seenGap := false
			for _, w := range got.Available[2].Windows {
				if !w.Starred {
					seenGap = true
				} else if seenGap {
					t.Fatalf("starred cluster split: %+v", got.Available[2].Windows)
				}
			}
		})
	}
}

func TestTabReorder(t *testing.T) {
	r := testReducer()
	c := fixture()
	got := r.Reduce(c, UpdateTabsFromGroupDnDAction{Group: 4, SourceWindow: 0, SourceTab: 0, DestinationWindow: 0, DestinationTab: 2})
	if !equalStrings(titles(got.Available[4].Windows[0]), []string{"c2", "c3", "c1"}) {
		t.Fatalf("unexpected order %v", titles(got.Available[4].Windows[0]))
	}
	got = r.Reduce(c, UpdateTabsFromGroupDnDAction{Group: 2, SourceWindow: 0, SourceTab: 1, DestinationWindow: 1, DestinationTab: 0})
	if !equalStrings(titles(got.Available[2].Windows[1]), []string{"a2", "a3"}) {
		t.Fatalf("unexpected destination %v", titles(got.Available[2].Windows[1]))
	}
	if !equalStrings(titles(got.Available[2].Windows[0]), []string{"a1"}) {
		t.Fatalf("unexpected source %v", titles(got.Available[2].Windows[0]))
	}
}

// Combining a tab into another group produces a fresh window at the top of that
// group and leaves the source window with the remaining tab.
func TestCombineTab(t *testing.T) {
	r := testReducer()
	c := tabs.Seed("live", "dupes", 1, []tabs.Window{window("l1")})
	c.Available = append(c.Available, group("x", window("tabA", "tabB")))
	c.Active = tabs.Active{ID: "x", Index: 2}
	c.Available = append(c.Available, group("y", window("y1")))

	got := r.Reduce(c, UpdateTabsFromSidePanelDnDAction{Group: 2, Window: 0, Tab: 0, Destination: 3})
	dst := got.Available[3].Windows
	if len(dst) != 2 || !equalStrings(titles(dst[0]), []string{"tabA"}) {
		t.Fatalf("unexpected destination windows %+v", dst)
	}
	if src := got.Available[2].Windows; len(src) != 1 || !equalStrings(titles(src[0]), []string{"tabB"}) {
		t.Fatalf("unexpected source %+v", src)
	}
	if got.Available[2].UpdatedAt == c.Available[2].UpdatedAt || got.Available[3].UpdatedAt == c.Available[3].UpdatedAt {
		t.Fatalf("both groups must be touched")
	}
}

func TestCombineWindowNoAliasing(t *testing.T) {
	r := testReducer()
	c := fixture()
	got := r.Reduce(c, UpdateWindowsFromSidePanelDnDAction{Group: 2, Window: 0, Destination: 4})
	if len(got.Available[2].Windows) != 1 || len(got.Available[4].Windows) != 2 {
		t.Fatalf("window not moved")
	}
	got.Available[4].Windows[0].Tabs[0].Title = "mutated"
	if c.Available[2].Windows[0].Tabs[0].Title != "a1" {
		t.Fatalf("destination aliases the source state")
	}
	for _, w := range got.Available[2].Windows {
		for _, tb := range w.Tabs {
			if tb.Title == "mutated" {
				t.Fatalf("source and destination share storage")
			}
		}
	}

	c.Available[0].Windows[0].Focused = true
	live := r.Reduce(c, UpdateWindowsFromSidePanelDnDAction{Group: 0, Window: 0, Destination: 3})
	if live.Available[3].Windows[0].Focused {
		t.Fatalf("windows leaving the live group must be unfocused")
	}
}

func TestStructuralTransforms(t *testing.T) {
	r := testReducer()
	c := fixture()
	c.Available[0].Windows[0].Focused = true

	dup := r.Reduce(c, DuplicateGroupAction{Group: 0})
	last := dup.Available[len(dup.Available)-1]
	if last.ID == "live" || last.Permanent || last.Windows[0].Focused {
		t.Fatalf("unexpected duplicate %+v", last)
	}
	mustCheck(t, dup)

	merged := r.Reduce(c, MergeWithCurrentAction{Group: 3})
	if len(merged.Available[3].Windows) != 2 || merged.Available[3].Windows[1].Focused {
		t.Fatalf("unexpected merge %+v", merged.Available[3].Windows)
	}
	replaced := r.Reduce(c, ReplaceWithCurrentAction{Group: 3})
	if !equalStrings(titles(replaced.Available[3].Windows[0]), []string{"l1", "l2"}) {
		t.Fatalf("unexpected replace %+v", replaced.Available[3].Windows)
	}

	united := r.Reduce(c, UniteWindowsAction{Group: 2})
	if len(united.Available[2].Windows) != 1 || !equalStrings(titles(united.Available[2].Windows[0]), []string{"a1", "a2", "a3"}) {
		t.Fatalf("unexpected unite %+v", united.Available[2].Windows)
	}
	split := r.Reduce(c, SplitWindowsAction{Group: 4})
	if len(split.Available[4].Windows) != 3 {
		t.Fatalf("unexpected split %+v", split.Available[4].Windows)
	}
	if !equalStrings(tabMultiset(split), tabMultiset(c)) || !equalStrings(tabMultiset(united), tabMultiset(c)) {
		t.Fatalf("unite/split must conserve tabs")
	}
	if again := r.Reduce(split, SplitWindowsAction{Group: 4}); again != split {
		t.Fatalf("splitting a split group must be identity")
	}

	// as many windows before as after, but not one tab per window
	uneven := fixture()
	uneven.Available[3].Windows = []tabs.Window{window("b1", "b2"), window()}
	got := r.Reduce(uneven, SplitWindowsAction{Group: 3})
	if got == uneven {
		t.Fatalf("split of [[b1 b2] []] was a no-op")
	}
	w := got.Available[3].Windows
	if len(w) != 2 || !equalStrings(titles(w[0]), []string{"b1"}) || !equalStrings(titles(w[1]), []string{"b2"}) {
		t.Fatalf("unexpected split %+v", w)
	}
}

func TestMetadata(t *testing.T) {
	r := testReducer()
	c := fixture()
	got := r.Reduce(c, UpdateNameAction{Group: 2, Name: "renamed"})
	got = r.Reduce(got, UpdateColorAction{Group: 2, Color: "#ff0000"})
	if got.Available[2].Name != "renamed" || got.Available[2].Color != "#ff0000" {
		t.Fatalf("metadata not applied %+v", got.Available[2])
	}
	before := got.Available[2].UpdatedAt
	info := r.Reduce(got, UpdateInfoAction{Group: 2})
	if info.Available[2].Info != "3T | 2W" || info.Available[2].UpdatedAt != before {
		t.Fatalf("info recompute must not touch updatedAt: %+v", info.Available[2])
	}
	if again := r.Reduce(info, UpdateInfoAction{Group: 2}); again != info {
		t.Fatalf("unchanged info should be identity")
	}
	stamped := r.Reduce(got, UpdateTimestampAction{Group: 2, UpdatedAt: 7})
	if stamped.Available[2].UpdatedAt != 7 {
		t.Fatalf("timestamp not set")
	}
	starred := r.Reduce(got, ToggleWindowStarredAction{Group: 2, Window: 1})
	named := r.Reduce(starred, UpdateWindowNameAction{Group: 2, Window: 1, Name: "work"})
	if w := named.Available[2].Windows[1]; !w.Starred || w.Name != "work" {
		t.Fatalf("window metadata not applied %+v", w)
	}
}

func TestActiveAndLive(t *testing.T) {
	r := testReducer()
	c := fixture()
	got := r.Reduce(c, UpdateActiveAction{Group: 2})
	if got.Active != (tabs.Active{ID: "a", Index: 2}) {
		t.Fatalf("active = %+v", got.Active)
	}
	live := r.Reduce(got, UpdateWindowsAction{Group: 0, Windows: []tabs.Window{{Tabs: nil, Focused: true}, window("n1")}})
	if len(live.Available[0].Windows) != 2 || live.Available[0].Windows[0].Tabs == nil {
		t.Fatalf("unexpected live windows %+v", live.Available[0].Windows)
	}
	for i := 1; i < len(c.Available); i++ {
		if live.Available[i].UpdatedAt != got.Available[i].UpdatedAt {
			t.Fatalf("live refresh touched user group %d", i)
		}
	}
}

func TestImportAndDuplicates(t *testing.T) {
	r := testReducer()
	c := fixture()
	imported := r.Reduce(c, ImportGroupsAction{Groups: []tabs.Group{
		{ID: "live", Name: "", Permanent: true, Windows: []tabs.Window{{Tabs: []tabs.Tab{tab("a1")}}}},
	}})
	last := imported.Available[len(imported.Available)-1]
	if last.ID == "live" || last.Permanent || last.Name != DefaultGroupName {
		t.Fatalf("import must assign a fresh identity: %+v", last)
	}
	mustCheck(t, imported)

	dupes := r.Reduce(imported, UpdateDuplicatesAction{})
	if got := dupes.Available[1].Windows; len(got) != 1 || !equalStrings(titles(got[0]), []string{"a1"}) {
		t.Fatalf("unexpected duplicates %+v", got)
	}
	if again := r.Reduce(dupes, UpdateDuplicatesAction{}); again != dupes {
		t.Fatalf("rebuilding identical duplicates should be identity")
	}
}

// randomAction builds a (possibly invalid) action against c.
func randomAction(rng *rand.Rand, c *tabs.Collection) Action {
	g := rng.Intn(len(c.Available) + 1)
	w, t := rng.Intn(3), rng.Intn(3)
	switch rng.Intn(14) {
	case 0:
		return AddGroupAction{}
	case 1:
		return AddWindowAction{Group: g}
	case 2:
		return DeleteGroupAction{Group: g}
	case 3:
		return DeleteWindowAction{Group: g, Window: w}
	case 4:
		return DeleteTabAction{Group: g, Window: w, Tab: t}
	case 5:
		return UpdateGroupOrderAction{Source: g, Destination: rng.Intn(len(c.Available))}
	case 6:
		return UpdateWindowsFromGroupDnDAction{Group: g, Source: w, Destination: rng.Intn(3)}
	case 7:
		return UpdateTabsFromGroupDnDAction{Group: g, SourceWindow: w, SourceTab: t, DestinationWindow: rng.Intn(3), DestinationTab: rng.Intn(3)}
	case 8:
		return UpdateTabsFromSidePanelDnDAction{Group: g, Window: w, Tab: t, Destination: rng.Intn(len(c.Available))}
	case 9:
		return UpdateWindowsFromSidePanelDnDAction{Group: g, Window: w, Destination: rng.Intn(len(c.Available))}
	case 10:
		return ClearEmptyWindowsAction{Group: g}
	case 11:
		return ClearEmptyGroupsAction{}
	case 12:
		return UpdateActiveAction{Group: g}
	default:
		return DuplicateGroupAction{Group: g}
	}
}

func isMove(a Action) bool {
	switch a.Type() {
	case UpdateGroupOrder, UpdateWindowsFromGroupDnD, UpdateTabsFromGroupDnD,
		UpdateWindowsFromSidePanelDnD, UpdateTabsFromSidePanelDnD:
		return true
	}
	return false
}

func TestRandomSequencesKeepInvariants(t *testing.T) {
	r := testReducer()
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		c := fixture()
		liveID := c.Available[0].ID
		for step := 0; step < 200; step++ {
			a := randomAction(rng, c)
			next := r.Reduce(c, a)
			if err := next.Check(); err != nil {
				t.Fatalf("run %d step %d %s: %v", run, step, a.Type(), err)
			}
			if next.Available[0].ID != liveID {
				t.Fatalf("live group displaced by %s", a.Type())
			}
			if isMove(a) && !equalStrings(tabMultiset(c), tabMultiset(next)) {
				t.Fatalf("%s did not conserve tabs", a.Type())
			}
			if a.Type() == ClearEmptyGroups {
				if again := r.Reduce(next, a); again != next {
					t.Fatalf("CLEAR_EMPTY_GROUPS not idempotent")
				}
			}
			c = next
		}
	}
}
