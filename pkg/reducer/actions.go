// Package reducer implements every structural mutation of a tab collection as
// a pure (state, action) -> state function.
package reducer

import (
	"errors"
	"fmt"

	"tableflip.dev/tabtree/pkg/tabs"
)

// Type is the wire name of an action.
type Type string

const (
	AddGroup                      Type = "ADD_GROUP"
	AddWindow                     Type = "ADD_WINDOW"
	DeleteGroup                   Type = "DELETE_GROUP"
	DeleteWindow                  Type = "DELETE_WINDOW"
	DeleteTab                     Type = "DELETE_TAB"
	UpdateGroupOrder              Type = "UPDATE_GROUP_ORDER"
	UpdateWindowsFromGroupDnD     Type = "UPDATE_WINDOWS_FROM_GROUP_DND"
	UpdateTabsFromGroupDnD        Type = "UPDATE_TABS_FROM_GROUP_DND"
	UpdateWindowsFromSidePanelDnD Type = "UPDATE_WINDOWS_FROM_SIDEPANEL_DND"
	UpdateTabsFromSidePanelDnD    Type = "UPDATE_TABS_FROM_SIDEPANEL_DND"
	ClearEmptyWindows             Type = "CLEAR_EMPTY_WINDOWS"
	ClearEmptyGroups              Type = "CLEAR_EMPTY_GROUPS"
	DuplicateGroup                Type = "DUPLICATE_GROUP"
	MergeWithCurrent              Type = "MERGE_WITH_CURRENT"
	ReplaceWithCurrent            Type = "REPLACE_WITH_CURRENT"
	UniteWindows                  Type = "UNITE_WINDOWS"
	SplitWindows                  Type = "SPLIT_WINDOWS"
	UpdateName                    Type = "UPDATE_NAME"
	UpdateColor                   Type = "UPDATE_COLOR"
	UpdateInfo                    Type = "UPDATE_INFO"
	UpdateTimestamp               Type = "UPDATE_TIMESTAMP"
	UpdateWindowName              Type = "UPDATE_WINDOW_NAME"
	ToggleWindowStarred           Type = "TOGGLE_WINDOW_STARRED"
	UpdateActive                  Type = "UPDATE_ACTIVE"
	UpdateWindows                 Type = "UPDATE_WINDOWS"
	ImportGroups                  Type = "IMPORT_GROUPS"
	UpdateDuplicates              Type = "UPDATE_DUPLICATES"
)

var (
	// ErrOutOfRange reports an index that does not address an element.
	ErrOutOfRange = errors.New("reducer: index out of range")
	// ErrPermanentGroup reports an operation a permanent group does not allow.
	ErrPermanentGroup = errors.New("reducer: group is permanent")
	// ErrInvalidDestination reports a move onto itself or onto the live group.
	ErrInvalidDestination = errors.New("reducer: invalid destination")
	// ErrUnknownAction reports an action the reducer does not handle.
	ErrUnknownAction = errors.New("reducer: unknown action")
	// ErrNoState reports a dispatch against a nil collection.
	ErrNoState = errors.New("reducer: no state")
)

// Action is a mutation request. The set of actions is closed; every action is
// declared in this package.
type Action interface {
	Type() Type
	validate(c *tabs.Collection) error
}

// Validate performs the caller-side contract checks for an action. The reducer
// itself never fails: an action that does not validate leaves the state as is.
func Validate(c *tabs.Collection, a Action) error {
	if c == nil {
		return ErrNoState
	}
	if a == nil {
		return ErrUnknownAction
	}
	return a.validate(c)
}

type scaffold struct {
	Action
}

// Scaffold marks an action as drag scaffolding. Scaffolding reduces exactly
// like the wrapped action but history never records it.
func Scaffold(a Action) Action {
	if a == nil {
		return nil
	}
	if _, ok := a.(scaffold); ok {
		return a
	}
	return scaffold{Action: a}
}

// IsScaffold reports whether the action was wrapped by Scaffold.
func IsScaffold(a Action) bool {
	_, ok := a.(scaffold)
	return ok
}

func unwrap(a Action) Action {
	if s, ok := a.(scaffold); ok {
		return s.Action
	}
	return a
}

// AddGroupAction appends an empty group.
type AddGroupAction struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

// AddWindowAction appends an empty window to a group.
type AddWindowAction struct {
	Group int `json:"group"`
}

// DeleteGroupAction removes a non-permanent group.
type DeleteGroupAction struct {
	Group int `json:"group"`
}

// DeleteWindowAction removes one window.
type DeleteWindowAction struct {
	Group  int `json:"group"`
	Window int `json:"window"`
}

// DeleteTabAction removes one tab.
type DeleteTabAction struct {
	Group  int `json:"group"`
	Window int `json:"window"`
	Tab    int `json:"tab"`
}

// UpdateGroupOrderAction moves a group between positions.
type UpdateGroupOrderAction struct {
	Source      int `json:"source"`
	Destination int `json:"destination"`
}

// UpdateWindowsFromGroupDnDAction moves a window within its group.
type UpdateWindowsFromGroupDnDAction struct {
	Group       int `json:"group"`
	Source      int `json:"source"`
	Destination int `json:"destination"`
}

// UpdateTabsFromGroupDnDAction moves a tab within its group, possibly into a
// sibling window.
type UpdateTabsFromGroupDnDAction struct {
	Group             int `json:"group"`
	SourceWindow      int `json:"sourceWindow"`
	SourceTab         int `json:"sourceTab"`
	DestinationWindow int `json:"destinationWindow"`
	DestinationTab    int `json:"destinationTab"`
}

// UpdateWindowsFromSidePanelDnDAction combines a window into another group.
type UpdateWindowsFromSidePanelDnDAction struct {
	Group       int `json:"group"`
	Window      int `json:"window"`
	Destination int `json:"destination"`
}

// UpdateTabsFromSidePanelDnDAction combines a tab into another group as a new
// window.
type UpdateTabsFromSidePanelDnDAction struct {
	Group       int `json:"group"`
	Window      int `json:"window"`
	Tab         int `json:"tab"`
	Destination int `json:"destination"`
}

// ClearEmptyWindowsAction prunes windows without tabs from a group.
type ClearEmptyWindowsAction struct {
	Group int `json:"group"`
}

// ClearEmptyGroupsAction prunes non-permanent groups without windows.
type ClearEmptyGroupsAction struct{}

// DuplicateGroupAction appends a deep copy of a group.
type DuplicateGroupAction struct {
	Group int `json:"group"`
}

// MergeWithCurrentAction appends the live windows to a group.
type MergeWithCurrentAction struct {
	Group int `json:"group"`
}

// ReplaceWithCurrentAction overwrites a group's windows with the live windows.
type ReplaceWithCurrentAction struct {
	Group int `json:"group"`
}

// UniteWindowsAction flattens every tab of a group into its first window.
type UniteWindowsAction struct {
	Group int `json:"group"`
}

// SplitWindowsAction gives every tab of a group its own window.
type SplitWindowsAction struct {
	Group int `json:"group"`
}

// UpdateNameAction renames a group.
type UpdateNameAction struct {
	Group int    `json:"group"`
	Name  string `json:"name"`
}

// UpdateColorAction recolors a group.
type UpdateColorAction struct {
	Group int    `json:"group"`
	Color string `json:"color"`
}

// UpdateInfoAction refreshes the info cache of a group. An empty Info is
// recomputed from the group's content.
type UpdateInfoAction struct {
	Group int    `json:"group"`
	Info  string `json:"info,omitempty"`
}

// UpdateTimestampAction sets updatedAt; zero means now.
type UpdateTimestampAction struct {
	Group     int   `json:"group"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// UpdateWindowNameAction names a window.
type UpdateWindowNameAction struct {
	Group  int    `json:"group"`
	Window int    `json:"window"`
	Name   string `json:"name"`
}

// ToggleWindowStarredAction flips the starred flag of a window.
type ToggleWindowStarredAction struct {
	Group  int `json:"group"`
	Window int `json:"window"`
}

// UpdateActiveAction switches the active group.
type UpdateActiveAction struct {
	Group int `json:"group"`
}

// UpdateWindowsAction replaces the windows of a group. The live tracker uses it
// on group 0.
type UpdateWindowsAction struct {
	Group   int           `json:"group"`
	Windows []tabs.Window `json:"windows"`
}

// ImportGroupsAction appends copies of externally produced groups.
type ImportGroupsAction struct {
	Groups []tabs.Group `json:"groups"`
}

// UpdateDuplicatesAction rebuilds the permanent duplicates group.
type UpdateDuplicatesAction struct{}

func (AddGroupAction) Type() Type                      { return AddGroup }
func (AddWindowAction) Type() Type                     { return AddWindow }
func (DeleteGroupAction) Type() Type                   { return DeleteGroup }
func (DeleteWindowAction) Type() Type                  { return DeleteWindow }
func (DeleteTabAction) Type() Type                     { return DeleteTab }
func (UpdateGroupOrderAction) Type() Type              { return UpdateGroupOrder }
func (UpdateWindowsFromGroupDnDAction) Type() Type     { return UpdateWindowsFromGroupDnD }
func (UpdateTabsFromGroupDnDAction) Type() Type        { return UpdateTabsFromGroupDnD }
func (UpdateWindowsFromSidePanelDnDAction) Type() Type { return UpdateWindowsFromSidePanelDnD }
func (UpdateTabsFromSidePanelDnDAction) Type() Type    { return UpdateTabsFromSidePanelDnD }
func (ClearEmptyWindowsAction) Type() Type             { return ClearEmptyWindows }
func (ClearEmptyGroupsAction) Type() Type              { return ClearEmptyGroups }
func (DuplicateGroupAction) Type() Type                { return DuplicateGroup }
func (MergeWithCurrentAction) Type() Type              { return MergeWithCurrent }
func (ReplaceWithCurrentAction) Type() Type            { return ReplaceWithCurrent }
func (UniteWindowsAction) Type() Type                  { return UniteWindows }
func (SplitWindowsAction) Type() Type                  { return SplitWindows }
func (UpdateNameAction) Type() Type                    { return UpdateName }
func (UpdateColorAction) Type() Type                   { return UpdateColor }
func (UpdateInfoAction) Type() Type                    { return UpdateInfo }
func (UpdateTimestampAction) Type() Type               { return UpdateTimestamp }
func (UpdateWindowNameAction) Type() Type              { return UpdateWindowName }
func (ToggleWindowStarredAction) Type() Type           { return ToggleWindowStarred }
func (UpdateActiveAction) Type() Type                  { return UpdateActive }
func (UpdateWindowsAction) Type() Type                 { return UpdateWindows }
func (ImportGroupsAction) Type() Type                  { return ImportGroups }
func (UpdateDuplicatesAction) Type() Type              { return UpdateDuplicates }

func checkGroup(c *tabs.Collection, g int) error {
	if g < 0 || g >= len(c.Available) {
		return fmt.Errorf("%w: group %d of %d", ErrOutOfRange, g, len(c.Available))
	}
	return nil
}

func checkWindow(c *tabs.Collection, g, w int) error {
	if err := checkGroup(c, g); err != nil {
		return err
	}
	if n := len(c.Available[g].Windows); w < 0 || w >= n {
		return fmt.Errorf("%w: window %d of %d in group %d", ErrOutOfRange, w, n, g)
	}
	return nil
}

func checkTab(c *tabs.Collection, g, w, t int) error {
	if err := checkWindow(c, g, w); err != nil {
		return err
	}
	if n := len(c.Available[g].Windows[w].Tabs); t < 0 || t >= n {
		return fmt.Errorf("%w: tab %d of %d in window %d", ErrOutOfRange, t, n, w)
	}
	return nil
}

// checkUserGroup addresses a group the user may restructure.
func checkUserGroup(c *tabs.Collection, g int) error {
	if err := checkGroup(c, g); err != nil {
		return err
	}
	if g == 0 {
		return fmt.Errorf("%w: group 0 mirrors the open windows", ErrPermanentGroup)
	}
	return nil
}

func checkCombineDestination(c *tabs.Collection, dest int) error {
	if err := checkGroup(c, dest); err != nil {
		return err
	}
	if dest == 0 {
		return fmt.Errorf("%w: cannot combine into group 0", ErrInvalidDestination)
	}
	return nil
}

func (AddGroupAction) validate(c *tabs.Collection) error { return nil }

func (a AddWindowAction) validate(c *tabs.Collection) error { return checkGroup(c, a.Group) }

func (a DeleteGroupAction) validate(c *tabs.Collection) error {
	if err := checkGroup(c, a.Group); err != nil {
		return err
	}
	if c.Available[a.Group].Permanent {
		return fmt.Errorf("%w: %q cannot be deleted", ErrPermanentGroup, c.Available[a.Group].Name)
	}
	return nil
}

func (a DeleteWindowAction) validate(c *tabs.Collection) error {
	return checkWindow(c, a.Group, a.Window)
}

func (a DeleteTabAction) validate(c *tabs.Collection) error {
	return checkTab(c, a.Group, a.Window, a.Tab)
}

func (a UpdateGroupOrderAction) validate(c *tabs.Collection) error {
	if err := checkUserGroup(c, a.Source); err != nil {
		return err
	}
	if err := checkGroup(c, a.Destination); err != nil {
		return err
	}
	if a.Destination == 0 {
		return fmt.Errorf("%w: group 0 is fixed", ErrInvalidDestination)
	}
	return nil
}

func (a UpdateWindowsFromGroupDnDAction) validate(c *tabs.Collection) error {
	if err := checkWindow(c, a.Group, a.Source); err != nil {
		return err
	}
	return checkWindow(c, a.Group, a.Destination)
}

func (a UpdateTabsFromGroupDnDAction) validate(c *tabs.Collection) error {
	if err := checkTab(c, a.Group, a.SourceWindow, a.SourceTab); err != nil {
		return err
	}
	if err := checkWindow(c, a.Group, a.DestinationWindow); err != nil {
		return err
	}
	limit := len(c.Available[a.Group].Windows[a.DestinationWindow].Tabs)
	if a.DestinationWindow == a.SourceWindow {
		limit--
	}
	if a.DestinationTab < 0 || a.DestinationTab > limit {
		return fmt.Errorf("%w: destination tab %d", ErrOutOfRange, a.DestinationTab)
	}
	return nil
}

func (a UpdateWindowsFromSidePanelDnDAction) validate(c *tabs.Collection) error {
	if err := checkWindow(c, a.Group, a.Window); err != nil {
		return err
	}
	return checkCombineDestination(c, a.Destination)
}

func (a UpdateTabsFromSidePanelDnDAction) validate(c *tabs.Collection) error {
	if err := checkTab(c, a.Group, a.Window, a.Tab); err != nil {
		return err
	}
	return checkCombineDestination(c, a.Destination)
}

func (a ClearEmptyWindowsAction) validate(c *tabs.Collection) error { return checkGroup(c, a.Group) }

func (ClearEmptyGroupsAction) validate(c *tabs.Collection) error { return nil }

func (a DuplicateGroupAction) validate(c *tabs.Collection) error { return checkGroup(c, a.Group) }

func (a MergeWithCurrentAction) validate(c *tabs.Collection) error {
	return checkUserGroup(c, a.Group)
}

func (a ReplaceWithCurrentAction) validate(c *tabs.Collection) error {
	return checkUserGroup(c, a.Group)
}

func (a UniteWindowsAction) validate(c *tabs.Collection) error { return checkGroup(c, a.Group) }

func (a SplitWindowsAction) validate(c *tabs.Collection) error { return checkGroup(c, a.Group) }

func (a UpdateNameAction) validate(c *tabs.Collection) error { return checkGroup(c, a.Group) }

func (a UpdateColorAction) validate(c *tabs.Collection) error { return checkGroup(c, a.Group) }

func (a UpdateInfoAction) validate(c *tabs.Collection) error { return checkGroup(c, a.Group) }

func (a UpdateTimestampAction) validate(c *tabs.Collection) error { return checkGroup(c, a.Group) }

func (a UpdateWindowNameAction) validate(c *tabs.Collection) error {
	return checkWindow(c, a.Group, a.Window)
}

func (a ToggleWindowStarredAction) validate(c *tabs.Collection) error {
	return checkWindow(c, a.Group, a.Window)
}

func (a UpdateActiveAction) validate(c *tabs.Collection) error { return checkGroup(c, a.Group) }

func (a UpdateWindowsAction) validate(c *tabs.Collection) error { return checkGroup(c, a.Group) }

func (a ImportGroupsAction) validate(c *tabs.Collection) error { return nil }

func (UpdateDuplicatesAction) validate(c *tabs.Collection) error { return nil }
