// Package drag turns drag-and-drop gestures into reducer actions.
package drag

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"tableflip.dev/tabtree/pkg/logging"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/tabs"
)

// Phase is where the controller is in a gesture.
type Phase int

const (
	Idle Phase = iota
	Captured
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Captured:
		return "captured"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

var (
	// ErrGestureInProgress reports a capture while another gesture is running.
	ErrGestureInProgress = errors.New("drag: a gesture is already in progress")
	// ErrNoGesture reports an event that needs a running gesture.
	ErrNoGesture = errors.New("drag: no gesture in progress")
	// ErrWrongDraggable reports an event for an item other than the captured one.
	ErrWrongDraggable = errors.New("drag: event does not belong to the captured item")

	// ErrNoTarget is the reason for a drop without destination or combine target.
	ErrNoTarget = errors.New("drag: dropped outside any target")
	// ErrForeignContainer is the reason for a drop outside the originating container.
	ErrForeignContainer = errors.New("drag: destination is outside the originating container")
)

// Store is what the controller dispatches into. *history.History satisfies it.
type Store interface {
	Present() *tabs.Collection
	Dispatch(reducer.Action) (*tabs.Collection, bool)
	BeginGesture()
	EndGesture()
}

// Location is a position in a droppable list.
type Location struct {
	DroppableID string `json:"droppableId"`
	Index       int    `json:"index"`
}

// Combine names the tile an item was dropped onto.
type Combine struct {
	DraggableID string `json:"draggableId"`
	DroppableID string `json:"droppableId,omitempty"`
}

// DropResult describes where the pointer is, or was released. It is used for
// both drag updates and the final drop.
type DropResult struct {
	DraggableID string    `json:"draggableId"`
	Source      Location  `json:"source"`
	Destination *Location `json:"destination,omitempty"`
	Combine     *Combine  `json:"combine,omitempty"`
}

// Feedback is the advisory answer to a drag update.
type Feedback struct {
	Valid   bool `json:"valid"`
	Combine bool `json:"combine"`
}

// Outcome reports what a drop did. Reason is set when nothing was dispatched.
type Outcome struct {
	Action  reducer.Action
	Changed bool
	Reason  error
}

// Scaffolding is the drop targets added for the running gesture.
type Scaffolding struct {
	Group  int
	Window int
	// NewGroup is the index of the scaffold group.
	NewGroup int
}

// Controller runs one gesture at a time against a Store.
type Controller struct {
	store Store
	log   *logrus.Entry

	phase    Phase
	id       string
	drag     Draggable
	scaffold *Scaffolding
}

// New returns an idle controller.
func New(store Store, log *logrus.Entry) *Controller {
	if log == nil {
		log = logging.Component(nil, "drag")
	}
	return &Controller{store: store, log: log}
}

// Phase returns the gesture phase.
func (c *Controller) Phase() Phase { return c.phase }

// Current returns the draggable of the running gesture.
func (c *Controller) Current() (Draggable, bool) {
	return c.drag, c.phase != Idle
}

// Scaffolding returns the drop targets added for the running gesture, if any.
func (c *Controller) Scaffolding() (Scaffolding, bool) {
	if c.scaffold == nil {
		return Scaffolding{}, false
	}
	return *c.scaffold, true
}

// BeforeCapture classifies id and, for tab and window drags, adds an empty
// window to the active group and an empty group to the list.
func (c *Controller) BeforeCapture(id string) error {
	if c.phase != Idle {
		return fmt.Errorf("%w: %s", ErrGestureInProgress, c.id)
	}
	d, err := Classify(id)
	if err != nil {
		return err
	}
	state := c.store.Present()
	if state == nil {
		return reducer.ErrNoState
	}
	if d.Kind == TabDrag {
		d.Group = state.Active.Index
	}

	c.store.BeginGesture()
	c.phase, c.id, c.drag = Captured, id, d

	if d.Kind == TabDrag || d.Kind == WindowDrag {
		active := state.Active.Index
		c.store.Dispatch(reducer.Scaffold(reducer.AddWindowAction{Group: active}))
		next, _ := c.store.Dispatch(reducer.Scaffold(reducer.AddGroupAction{}))
		c.scaffold = &Scaffolding{
			Group:    active,
			Window:   len(next.Available[active].Windows) - 1,
			NewGroup: len(next.Available) - 1,
		}
	}
	c.log.WithFields(logrus.Fields{"draggable": id, "kind": d.Kind}).Debug("captured")
	return nil
}

// DragStart moves a captured gesture into the dragging phase.
func (c *Controller) DragStart(id string) error {
	if c.phase != Captured {
		return fmt.Errorf("%w: drag start in phase %s", ErrNoGesture, c.phase)
	}
	if id != c.id {
		return fmt.Errorf("%w: %q", ErrWrongDraggable, id)
	}
	c.phase = Dragging
	return nil
}

// DragUpdate reports whether releasing now would dispatch anything. It never
// changes state.
func (c *Controller) DragUpdate(u DropResult) (Feedback, error) {
	if c.phase != Dragging {
		return Feedback{}, fmt.Errorf("%w: drag update in phase %s", ErrNoGesture, c.phase)
	}
	if u.DraggableID != c.id {
		return Feedback{}, fmt.Errorf("%w: %q", ErrWrongDraggable, u.DraggableID)
	}
	a, err := c.plan(c.store.Present(), u)
	if err != nil || a == nil {
		return Feedback{}, nil
	}
	_, combine := a.(reducer.UpdateTabsFromSidePanelDnDAction)
	if !combine {
		_, combine = a.(reducer.UpdateWindowsFromSidePanelDnDAction)
	}
	return Feedback{Valid: true, Combine: combine}, nil
}

// DragEnd dispatches at most one action for the drop, then removes the
// scaffolding and closes the gesture whether or not anything was dispatched.
func (c *Controller) DragEnd(result DropResult) (Outcome, error) {
	if c.phase == Idle {
		return Outcome{}, fmt.Errorf("%w: drag end while idle", ErrNoGesture)
	}
	if result.DraggableID != c.id {
		return Outcome{}, fmt.Errorf("%w: %q", ErrWrongDraggable, result.DraggableID)
	}
	defer c.finish()

	var out Outcome
	a, err := c.plan(c.store.Present(), result)
	switch {
	case err != nil:
		out.Reason = err
	case a == nil:
		out.Reason = ErrNoTarget
	default:
		out.Action = a
		_, out.Changed = c.store.Dispatch(a)
	}
	c.log.WithFields(logrus.Fields{
		"draggable": result.DraggableID,
		"action":    actionType(out.Action),
		"changed":   out.Changed,
	}).Debug("dropped")
	return out, nil
}

// Cancel abandons the running gesture without dispatching a drop.
func (c *Controller) Cancel() error {
	if c.phase == Idle {
		return fmt.Errorf("%w: cancel while idle", ErrNoGesture)
	}
	c.finish()
	return nil
}

func (c *Controller) finish() {
	if c.drag.Kind == TabDrag || c.drag.Kind == WindowDrag {
		active := c.store.Present().Active.Index
		c.store.Dispatch(reducer.Scaffold(reducer.ClearEmptyWindowsAction{Group: active}))
		c.store.Dispatch(reducer.Scaffold(reducer.ClearEmptyGroupsAction{}))
	}
	c.store.EndGesture()
	c.phase, c.id, c.drag, c.scaffold = Idle, "", Draggable{}, nil
}

// plan picks the single action for a drop, or nil for a no-op drop.
func (c *Controller) plan(state *tabs.Collection, r DropResult) (reducer.Action, error) {
	d := c.drag
	var a reducer.Action

	switch {
	case r.Combine != nil && d.Kind != GroupDrag:
		target, err := Classify(r.Combine.DraggableID)
		if err != nil {
			return nil, err
		}
		if target.Kind != GroupDrag {
			return nil, fmt.Errorf("%w: %q is not a group tile", reducer.ErrInvalidDestination, r.Combine.DraggableID)
		}
		if d.Kind == TabDrag {
			a = reducer.UpdateTabsFromSidePanelDnDAction{Group: d.Group, Window: d.Window, Tab: d.Tab, Destination: target.Group}
		} else {
			a = reducer.UpdateWindowsFromSidePanelDnDAction{Group: d.Group, Window: d.Window, Destination: target.Group}
		}

	case r.Destination != nil:
		dst, err := ParseDroppable(r.Destination.DroppableID)
		if err != nil {
			return nil, err
		}
		switch {
		case d.Kind == TabDrag && dst.Area == TabList:
			a = reducer.UpdateTabsFromGroupDnDAction{
				Group:             d.Group,
				SourceWindow:      d.Window,
				SourceTab:         d.Tab,
				DestinationWindow: dst.Index,
				DestinationTab:    r.Destination.Index,
			}
		case d.Kind == WindowDrag && dst.Area == WindowList && dst.Index == d.Group:
			a = reducer.UpdateWindowsFromGroupDnDAction{Group: d.Group, Source: d.Window, Destination: r.Destination.Index}
		case d.Kind == GroupDrag && dst.Area == SidePanel:
			if r.Destination.Index <= 0 {
				return nil, fmt.Errorf("%w: group 0 is fixed", reducer.ErrInvalidDestination)
			}
			a = reducer.UpdateGroupOrderAction{Source: d.Group, Destination: r.Destination.Index}
		default:
			return nil, fmt.Errorf("%w: %s onto %q", ErrForeignContainer, d.Kind, r.Destination.DroppableID)
		}

	default:
		return nil, nil
	}

	if err := reducer.Validate(state, a); err != nil {
		return nil, err
	}
	return a, nil
}

func actionType(a reducer.Action) reducer.Type {
	if a == nil {
		return ""
	}
	return a.Type()
}
