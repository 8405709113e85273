package drag

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Kind is the operation family of a drag.
type Kind int

const (
	None Kind = iota
	TabDrag
	WindowDrag
	GroupDrag
)

func (k Kind) String() string {
	switch k {
	case TabDrag:
		return "tab"
	case WindowDrag:
		return "window"
	case GroupDrag:
		return "group"
	default:
		return "none"
	}
}

var (
	// ErrUnknownDraggable reports an id that matches none of the draggable forms.
	ErrUnknownDraggable = errors.New("drag: unknown draggable id")
	// ErrUnknownDroppable reports an id that matches none of the droppable forms.
	ErrUnknownDroppable = errors.New("drag: unknown droppable id")
)

var (
	tabPattern    = regexp.MustCompile(`(?i)^tab-(\d+)-window-(\d+)$`)
	windowPattern = regexp.MustCompile(`(?i)^window-(\d+)-group-(\d+)$`)
	groupPattern  = regexp.MustCompile(`(?i)^group-(\d+)$`)

	tabsPattern      = regexp.MustCompile(`(?i)^tabs-(\d+)$`)
	windowsPattern   = regexp.MustCompile(`(?i)^windows-(\d+)$`)
	sidePanelPattern = regexp.MustCompile(`(?i)^sidepanel$`)
)

// Draggable is a classified drag identifier. Tabs are addressed inside the
// active group, so Group is only meaningful for window and group drags until
// the controller fills it in.
type Draggable struct {
	Kind   Kind
	Group  int
	Window int
	Tab    int
}

// Classify matches id against the tab, window and group forms.
func Classify(id string) (Draggable, error) {
	if m := tabPattern.FindStringSubmatch(id); m != nil {
		return Draggable{Kind: TabDrag, Group: -1, Tab: atoi(m[1]), Window: atoi(m[2])}, nil
	}
	if m := windowPattern.FindStringSubmatch(id); m != nil {
		return Draggable{Kind: WindowDrag, Window: atoi(m[1]), Group: atoi(m[2])}, nil
	}
	if m := groupPattern.FindStringSubmatch(id); m != nil {
		return Draggable{Kind: GroupDrag, Group: atoi(m[1])}, nil
	}
	return Draggable{}, fmt.Errorf("%w: %q", ErrUnknownDraggable, id)
}

// ID renders the draggable back into its identifier.
func (d Draggable) ID() string {
	switch d.Kind {
	case TabDrag:
		return TabID(d.Window, d.Tab)
	case WindowDrag:
		return WindowID(d.Group, d.Window)
	case GroupDrag:
		return GroupID(d.Group)
	}
	return ""
}

// TabID names tab t of window w in the active group.
func TabID(w, t int) string { return fmt.Sprintf("tab-%d-window-%d", t, w) }

// WindowID names window w of group g.
func WindowID(g, w int) string { return fmt.Sprintf("window-%d-group-%d", w, g) }

// GroupID names group g. Group tiles use the same id as combine targets.
func GroupID(g int) string { return fmt.Sprintf("group-%d", g) }

// Area is the kind of list a droppable id names.
type Area int

const (
	NoArea Area = iota
	// TabList is the tab list of one window of the active group.
	TabList
	// WindowList is the window list of one group.
	WindowList
	// SidePanel is the list of groups.
	SidePanel
)

// Droppable is a parsed droppable id.
type Droppable struct {
	Area  Area
	Index int
}

// ParseDroppable parses tabs-<w>, windows-<g> and sidepanel.
func ParseDroppable(id string) (Droppable, error) {
	if m := tabsPattern.FindStringSubmatch(id); m != nil {
		return Droppable{Area: TabList, Index: atoi(m[1])}, nil
	}
	if m := windowsPattern.FindStringSubmatch(id); m != nil {
		return Droppable{Area: WindowList, Index: atoi(m[1])}, nil
	}
	if sidePanelPattern.MatchString(id) {
		return Droppable{Area: SidePanel}, nil
	}
	return Droppable{}, fmt.Errorf("%w: %q", ErrUnknownDroppable, id)
}

// TabsDroppable names the tab list of window w in the active group.
func TabsDroppable(w int) string { return fmt.Sprintf("tabs-%d", w) }

// WindowsDroppable names the window list of group g.
func WindowsDroppable(g int) string { return fmt.Sprintf("windows-%d", g) }

// SidePanelDroppable names the group list.
const SidePanelDroppable = "sidepanel"

// atoi is only called on \d+ matches; overflow saturates to -1 which every
// bounds check rejects.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
