package reducer

import (
	"reflect"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/tabtree/pkg/tabs"
)

// DefaultGroupName is given to groups created without a name.
const DefaultGroupName = "Untitled"

// Reducer applies actions to a collection. Now and NewID are the only inputs
// besides state and action; tests pin them.
type Reducer struct {
	Now   func() int64
	NewID func() string
}

// New returns a reducer using the wall clock and random UUIDs.
func New() *Reducer {
	return &Reducer{
		Now:   func() int64 { return time.Now().UnixMilli() },
		NewID: uuid.NewString,
	}
}

var std = New()

// Reduce applies the action with the default reducer.
func Reduce(state *tabs.Collection, a Action) *tabs.Collection {
	return std.Reduce(state, a)
}

// Reduce returns the state after applying the action. The input is never
// modified. When the action does not validate, is unknown or changes nothing,
// the very same pointer is returned.
func (r *Reducer) Reduce(state *tabs.Collection, a Action) *tabs.Collection {
	if state == nil || a == nil {
		return state
	}
	a = unwrap(a)
	if err := a.validate(state); err != nil {
		return state
	}
	next := state.Clone()
	if !r.apply(next, a) {
		return state
	}
	return next
}

func (r *Reducer) now() int64 {
	if r.Now == nil {
		return time.Now().UnixMilli()
	}
	return r.Now()
}

func (r *Reducer) newID() string {
	if r.NewID == nil {
		return uuid.NewString()
	}
	return r.NewID()
}

func (r *Reducer) touch(c *tabs.Collection, g int) {
	c.Available[g].UpdatedAt = r.now()
}

// apply mutates c, which is a private copy, and reports whether anything
// changed.
func (r *Reducer) apply(c *tabs.Collection, action Action) bool {
	switch a := action.(type) {

	// ===== CREATE =====

	case AddGroupAction:
		g := tabs.Group{
			ID:        r.newID(),
			Name:      a.Name,
			Color:     a.Color,
			UpdatedAt: r.now(),
			Windows:   []tabs.Window{},
		}
		if g.Name == "" {
			g.Name = DefaultGroupName
		}
		if g.Color == "" {
			g.Color = tabs.DefaultColor
		}
		g.Info = tabs.Info(g)
		c.Available = append(c.Available, g)
		return true

	case AddWindowAction:
		g := &c.Available[a.Group]
		g.Windows = append(g.Windows, tabs.Window{Tabs: []tabs.Tab{}})
		return true

	// ===== DELETE =====

	case DeleteGroupAction:
		c.Available = remove(c.Available, a.Group)
		switch {
		case a.Group < c.Active.Index:
			c.Active.Index--
		case a.Group == c.Active.Index:
			c.Active.Index = max(0, a.Group-1)
			c.Active.ID = c.Available[c.Active.Index].ID
		}
		return true

	case DeleteWindowAction:
		g := &c.Available[a.Group]
		g.Windows = remove(g.Windows, a.Window)
		r.touch(c, a.Group)
		return true

	case DeleteTabAction:
		w := &c.Available[a.Group].Windows[a.Window]
		w.Tabs = remove(w.Tabs, a.Tab)
		r.touch(c, a.Group)
		return true

	// ===== REORDER =====

	case UpdateGroupOrderAction:
		if a.Source == a.Destination {
			return false
		}
		c.Available = move(c.Available, a.Source, a.Destination)
		c.Active.Index = c.IndexOf(c.Active.ID)
		return true

	case UpdateWindowsFromGroupDnDAction:
		if a.Source == a.Destination {
			return false
		}
		g := &c.Available[a.Group]
		g.Windows = move(g.Windows, a.Source, a.Destination)
		g.Windows[a.Destination].Starred = starredAt(g.Windows, a.Destination)
		r.touch(c, a.Group)
		return true

	case UpdateTabsFromGroupDnDAction:
		g := &c.Available[a.Group]
		if a.SourceWindow == a.DestinationWindow {
			if a.SourceTab == a.DestinationTab {
				return false
			}
			w := &g.Windows[a.SourceWindow]
			w.Tabs = move(w.Tabs, a.SourceTab, a.DestinationTab)
		} else {
			src := &g.Windows[a.SourceWindow]
			t := src.Tabs[a.SourceTab]
			src.Tabs = remove(src.Tabs, a.SourceTab)
			dst := &g.Windows[a.DestinationWindow]
			dst.Tabs = insert(dst.Tabs, a.DestinationTab, t)
		}
		r.touch(c, a.Group)
		return true

	// ===== COMBINE =====

	case UpdateWindowsFromSidePanelDnDAction:
		src := &c.Available[a.Group]
		w := src.Windows[a.Window].Clone()
		if src.Permanent {
			w.Focused = false
		}
		src.Windows = remove(src.Windows, a.Window)
		dst := &c.Available[a.Destination]
		dst.Windows = insert(dst.Windows, 0, w)
		r.touch(c, a.Group)
		r.touch(c, a.Destination)
		return true

	case UpdateTabsFromSidePanelDnDAction:
		srcWindow := &c.Available[a.Group].Windows[a.Window]
		t := srcWindow.Tabs[a.Tab]
		w := tabs.Window{
			Tabs:      []tabs.Tab{t},
			Incognito: srcWindow.Incognito,
		}
		srcWindow.Tabs = remove(srcWindow.Tabs, a.Tab)
		dst := &c.Available[a.Destination]
		dst.Windows = insert(dst.Windows, 0, w)
		r.touch(c, a.Group)
		r.touch(c, a.Destination)
		return true

	// ===== GARBAGE COLLECTION =====

	case ClearEmptyWindowsAction:
		g := &c.Available[a.Group]
		kept := g.Windows[:0]
		for _, w := range g.Windows {
			if len(w.Tabs) > 0 {
				kept = append(kept, w)
			}
		}
		if len(kept) == len(g.Windows) {
			return false
		}
		g.Windows = kept
		return true

	case ClearEmptyGroupsAction:
		return clearEmptyGroups(c)

	// ===== STRUCTURAL TRANSFORMS =====

	case DuplicateGroupAction:
		src := c.Available[a.Group]
		g := src.Clone()
		g.ID = r.newID()
		g.UpdatedAt = r.now()
		if src.Permanent {
			g.Windows = tabs.Unfocused(g.Windows)
			g.Permanent = false
		}
		g.Info = tabs.Info(g)
		c.Available = append(c.Available, g)
		return true

	case MergeWithCurrentAction:
		live := c.Available[0].Windows
		if len(live) == 0 {
			return false
		}
		g := &c.Available[a.Group]
		g.Windows = append(g.Windows, tabs.Unfocused(live)...)
		r.touch(c, a.Group)
		return true

	case ReplaceWithCurrentAction:
		g := &c.Available[a.Group]
		g.Windows = tabs.Unfocused(c.Available[0].Windows)
		r.touch(c, a.Group)
		return true

	case UniteWindowsAction:
		g := &c.Available[a.Group]
		if len(g.Windows) < 2 {
			return false
		}
		first := g.Windows[0]
		for _, w := range g.Windows[1:] {
			first.Tabs = append(first.Tabs, w.Tabs...)
		}
		g.Windows = []tabs.Window{first}
		r.touch(c, a.Group)
		return true

	case SplitWindowsAction:
		g := &c.Available[a.Group]
		if alreadySplit(g.Windows) {
			return false
		}
		split := make([]tabs.Window, 0, g.TabCount())
		for _, w := range g.Windows {
			for _, t := range w.Tabs {
				split = append(split, tabs.Window{
					Tabs:      []tabs.Tab{t},
					Incognito: w.Incognito,
					Starred:   w.Starred,
				})
			}
		}
		g.Windows = split
		r.touch(c, a.Group)
		return true

	// ===== METADATA =====

	case UpdateNameAction:
		g := &c.Available[a.Group]
		if g.Name == a.Name {
			return false
		}
		g.Name = a.Name
		r.touch(c, a.Group)
		return true

	case UpdateColorAction:
		g := &c.Available[a.Group]
		if g.Color == a.Color {
			return false
		}
		g.Color = a.Color
		r.touch(c, a.Group)
		return true

	case UpdateInfoAction:
		g := &c.Available[a.Group]
		info := a.Info
		if info == "" {
			info = tabs.Info(*g)
		}
		if g.Info == info {
			return false
		}
		g.Info = info
		return true

	case UpdateTimestampAction:
		ts := a.UpdatedAt
		if ts == 0 {
			ts = r.now()
		}
		c.Available[a.Group].UpdatedAt = ts
		return true

	case UpdateWindowNameAction:
		w := &c.Available[a.Group].Windows[a.Window]
		if w.Name == a.Name {
			return false
		}
		w.Name = a.Name
		r.touch(c, a.Group)
		return true

	case ToggleWindowStarredAction:
		w := &c.Available[a.Group].Windows[a.Window]
		w.Starred = !w.Starred
		r.touch(c, a.Group)
		return true

	// ===== ACTIVE / LIVE =====

	case UpdateActiveAction:
		if c.Active.Index == a.Group && c.Active.ID == c.Available[a.Group].ID {
			return false
		}
		c.Active = tabs.Active{ID: c.Available[a.Group].ID, Index: a.Group}
		return true

	case UpdateWindowsAction:
		windows := tabs.CloneWindows(a.Windows)
		for i := range windows {
			if windows[i].Tabs == nil {
				windows[i].Tabs = []tabs.Tab{}
			}
		}
		c.Available[a.Group].Windows = windows
		r.touch(c, a.Group)
		return true

	case ImportGroupsAction:
		if len(a.Groups) == 0 {
			return false
		}
		for _, src := range a.Groups {
			g := src.Clone()
			g.ID = r.newID()
			g.Permanent = false
			if g.Name == "" {
				g.Name = DefaultGroupName
			}
			if g.Color == "" {
				g.Color = tabs.DefaultColor
			}
			if g.UpdatedAt == 0 {
				g.UpdatedAt = r.now()
			}
			for i := range g.Windows {
				if g.Windows[i].Tabs == nil {
					g.Windows[i].Tabs = []tabs.Tab{}
				}
			}
			g.Info = tabs.Info(g)
			c.Available = append(c.Available, g)
		}
		return true

	case UpdateDuplicatesAction:
		idx := -1
		for i, g := range c.Available {
			if g.Permanent && g.Name == tabs.DuplicatesGroupName {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false
		}
		windows := []tabs.Window{}
		if dupes := c.Duplicates(); len(dupes) > 0 {
			windows = append(windows, tabs.Window{Tabs: dupes})
		}
		g := &c.Available[idx]
		if reflect.DeepEqual(g.Windows, windows) {
			return false
		}
		g.Windows = windows
		r.touch(c, idx)
		return true
	}
	return false
}

func clearEmptyGroups(c *tabs.Collection) bool {
	kept := make([]tabs.Group, 0, len(c.Available))
	// newIndex[i] is the position of original group i after pruning, or -1.
	newIndex := make([]int, len(c.Available))
	for i, g := range c.Available {
		if !g.Permanent && len(g.Windows) == 0 {
			newIndex[i] = -1
			continue
		}
		newIndex[i] = len(kept)
		kept = append(kept, g)
	}
	if len(kept) == len(c.Available) {
		return false
	}
	active := c.Active.Index
	c.Available = kept
	if active >= 0 && active < len(newIndex) && newIndex[active] >= 0 {
		c.Active.Index = newIndex[active]
		return true
	}
	c.Active.Index = 0
	for i := min(active, len(newIndex)) - 1; i >= 0; i-- {
		if newIndex[i] >= 0 {
			c.Active.Index = newIndex[i]
			break
		}
	}
	c.Active.ID = c.Available[c.Active.Index].ID
	return true
}

// starredAt decides the starred flag of the window that just landed at i: it
// joins the cluster it is surrounded by, follows its only neighbour, and keeps
// its own flag when it sits on the boundary between starred and unstarred.
func starredAt(windows []tabs.Window, i int) bool {
	own := windows[i].Starred
	hasAbove, hasBelow := i > 0, i < len(windows)-1
	switch {
	case hasAbove && hasBelow:
		above, below := windows[i-1].Starred, windows[i+1].Starred
		if above == below {
			return above
		}
		return own
	case hasAbove:
		return windows[i-1].Starred
	case hasBelow:
		return windows[i+1].Starred
	default:
		return own
	}
}

func remove[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func insert[T any](s []T, i int, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}

// move takes the element at from out and puts it back so that it ends up at
// index to.
func move[T any](s []T, from, to int) []T {
	v := s[from]
	return insert(remove(s, from), to, v)
}

// alreadySplit reports whether every window holds exactly one tab.
func alreadySplit(windows []tabs.Window) bool {
	for _, w := range windows {
		if len(w.Tabs) != 1 {
			return false
		}
	}
	return true
}
