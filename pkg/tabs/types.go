// Package tabs defines the Group/Window/Tab collection that tabtree persists
// and mutates.
package tabs

// Tab is a single browser tab record.
type Tab struct {
	Title      string `json:"title" yaml:"title"`
	URL        string `json:"url" yaml:"url"`
	Pinned     bool   `json:"pinned" yaml:"pinned"`
	FavIconURL string `json:"favIconUrl,omitempty" yaml:"favIconUrl,omitempty"`
}

// Window is an ordered list of tabs, as one browser window.
type Window struct {
	Tabs      []Tab  `json:"tabs" yaml:"tabs"`
	Focused   bool   `json:"focused" yaml:"focused"`
	Incognito bool   `json:"incognito,omitempty" yaml:"incognito,omitempty"`
	Starred   bool   `json:"starred,omitempty" yaml:"starred,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Group is a named, colored, ordered list of windows.
type Group struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Color     string   `json:"color" yaml:"color"`
	UpdatedAt int64    `json:"updatedAt" yaml:"updatedAt"`
	Windows   []Window `json:"windows" yaml:"windows"`
	Permanent bool     `json:"permanent,omitempty" yaml:"permanent,omitempty"`
	Info      string   `json:"info,omitempty" yaml:"info,omitempty"`
}

// Active points at the group the user is looking at.
type Active struct {
	ID    string `json:"id" yaml:"id"`
	Index int    `json:"index" yaml:"index"`
}

// Collection is the whole persisted record.
type Collection struct {
	Active    Active  `json:"active" yaml:"active"`
	Available []Group `json:"available" yaml:"available"`
}

const (
	// LiveGroupName names the permanent group mirroring the open browser windows.
	LiveGroupName = "Now Open"
	// DuplicatesGroupName names the permanent group collecting duplicate tabs.
	DuplicatesGroupName = "Duplicates"
	// DefaultColor is the color given to groups created without one.
	DefaultColor = "#808080"
)

// Clone returns a deep copy of the window.
func (w Window) Clone() Window {
	out := w
	out.Tabs = make([]Tab, len(w.Tabs))
	copy(out.Tabs, w.Tabs)
	return out
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	out := g
	out.Windows = CloneWindows(g.Windows)
	return out
}

// Clone returns a deep copy of the collection. A nil collection clones to nil.
func (c *Collection) Clone() *Collection {
	if c == nil {
		return nil
	}
	out := &Collection{
		Active:    c.Active,
		Available: make([]Group, len(c.Available)),
	}
	for i, g := range c.Available {
		out.Available[i] = g.Clone()
	}
	return out
}

// CloneWindows deep copies a window list.
func CloneWindows(windows []Window) []Window {
	out := make([]Window, len(windows))
	for i, w := range windows {
		out[i] = w.Clone()
	}
	return out
}

// Unfocused returns a deep copy of windows with every focused flag cleared.
func Unfocused(windows []Window) []Window {
	out := CloneWindows(windows)
	for i := range out {
		out[i].Focused = false
	}
	return out
}

// TabCount is the number of tabs across all windows of the group.
func (g Group) TabCount() int {
	n := 0
	for _, w := range g.Windows {
		n += len(w.Tabs)
	}
	return n
}

// TabCount is the number of tabs in the whole collection.
func (c *Collection) TabCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, g := range c.Available {
		n += g.TabCount()
	}
	return n
}

// IndexOf returns the position of the group with the given id, or -1.
func (c *Collection) IndexOf(id string) int {
	if c == nil {
		return -1
	}
	for i, g := range c.Available {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// ActiveGroup returns the group the active pointer refers to.
func (c *Collection) ActiveGroup() (Group, bool) {
	if c == nil || c.Active.Index < 0 || c.Active.Index >= len(c.Available) {
		return Group{}, false
	}
	return c.Available[c.Active.Index], true
}
