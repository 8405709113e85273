// Package history records reducer dispatches into a bounded undo/redo log.
package history

import (
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/tabs"
)

// DefaultLimit is the number of undo steps kept when the policy sets none.
const DefaultLimit = 50

// Kind says how a dispatch of a given action type lands in the log.
type Kind int

const (
	// Step starts a new undo step. Types missing from a policy are steps.
	Step Kind = iota
	// Ignore applies the change without recording it.
	Ignore
	// Fold merges the change into the latest step.
	Fold
	// Coalesce merges with a directly preceding coalescing step.
	Coalesce
	// Checkpoint always starts a new, distinct step.
	Checkpoint
)

func (k Kind) String() string {
	switch k {
	case Ignore:
		return "ignore"
	case Fold:
		return "fold"
	case Coalesce:
		return "coalesce"
	case Checkpoint:
		return "checkpoint"
	default:
		return "step"
	}
}

// Policy maps action types to how they are recorded.
type Policy struct {
	Limit int
	Kinds map[reducer.Type]Kind
}

// DefaultPolicy is the policy tabtree ships with.
func DefaultPolicy() Policy {
	return Policy{
		Limit: DefaultLimit,
		Kinds: map[reducer.Type]Kind{
			reducer.UpdateWindows: Ignore,

			reducer.ClearEmptyWindows: Fold,
			reducer.ClearEmptyGroups:  Fold,
			reducer.UpdateInfo:        Fold,

			reducer.UpdateGroupOrder:              Coalesce,
			reducer.UpdateWindowsFromGroupDnD:     Coalesce,
			reducer.UpdateTabsFromGroupDnD:        Coalesce,
			reducer.UpdateWindowsFromSidePanelDnD: Coalesce,
			reducer.UpdateTabsFromSidePanelDnD:    Coalesce,
			reducer.UpdateTimestamp:               Coalesce,

			reducer.DeleteGroup:  Checkpoint,
			reducer.DeleteWindow: Checkpoint,
			reducer.DeleteTab:    Checkpoint,
			reducer.UpdateActive: Checkpoint,
		},
	}
}

// With returns a copy of the policy with t recorded as k.
func (p Policy) With(t reducer.Type, k Kind) Policy {
	kinds := make(map[reducer.Type]Kind, len(p.Kinds)+1)
	for typ, kind := range p.Kinds {
		kinds[typ] = kind
	}
	kinds[t] = k
	p.Kinds = kinds
	return p
}

// KindOf returns how the action is recorded. Scaffolding is always ignored.
func (p Policy) KindOf(a reducer.Action) Kind {
	if reducer.IsScaffold(a) {
		return Ignore
	}
	return p.Kinds[a.Type()]
}

func (p Policy) limit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	return p.Limit
}

// ReduceFunc computes the next state; reducer.Reduce is the default.
type ReduceFunc func(*tabs.Collection, reducer.Action) *tabs.Collection

// History owns the present collection plus the states to undo and redo to.
// It is not safe for concurrent use; callers serialize.
type History struct {
	policy Policy
	reduce ReduceFunc

	past    []*tabs.Collection
	present *tabs.Collection
	future  []*tabs.Collection

	// coalescing is set while the latest step accepts Coalesce merges.
	coalescing bool

	inGesture bool
	base      *tabs.Collection
	recorded  bool
}

// New anchors a history at state.
func New(state *tabs.Collection, reduce ReduceFunc, p Policy) *History {
	if reduce == nil {
		reduce = reducer.Reduce
	}
	return &History{policy: p, reduce: reduce, present: state}
}

// Present is the current collection.
func (h *History) Present() *tabs.Collection {
	return h.present
}

// Policy returns the recording policy.
func (h *History) Policy() Policy {
	return h.policy
}

// Reset drops all steps and anchors the log at state.
func (h *History) Reset(state *tabs.Collection) {
	h.past = nil
	h.future = nil
	h.present = state
	h.coalescing = false
	h.inGesture = false
	h.base = nil
	h.recorded = false
}

// Dispatch reduces a against the present state and records the result. It
// reports whether the state changed.
func (h *History) Dispatch(a reducer.Action) (*tabs.Collection, bool) {
	next := h.reduce(h.present, a)
	if next == h.present {
		return h.present, false
	}
	kind := h.policy.KindOf(a)
	switch {
	case kind == Ignore:

	case h.inGesture:
		// one gesture is one step, taken from the state before scaffolding
		if !h.recorded {
			h.push(h.base)
			h.recorded = true
		}
		h.future = nil

	case kind == Fold && len(h.past) > 0:
		h.future = nil

	case kind == Coalesce && h.coalescing:
		h.future = nil

	default:
		h.push(h.present)
		h.future = nil
		h.coalescing = kind == Coalesce
	}
	h.present = next
	return next, true
}

func (h *History) push(state *tabs.Collection) {
	h.past = append(h.past, state)
	if over := len(h.past) - h.policy.limit(); over > 0 {
		h.past = append([]*tabs.Collection(nil), h.past[over:]...)
	}
}

// BeginGesture brackets a drag. Every recorded change until EndGesture
// becomes a single step whose undo target is the state at BeginGesture.
func (h *History) BeginGesture() {
	h.inGesture = true
	h.base = h.present
	h.recorded = false
}

// EndGesture closes the bracket opened by BeginGesture.
func (h *History) EndGesture() {
	h.inGesture = false
	h.base = nil
	h.recorded = false
	h.coalescing = false
}

// InGesture reports whether a gesture bracket is open.
func (h *History) InGesture() bool {
	return h.inGesture
}

// Undo steps back once. It is a no-op without steps.
func (h *History) Undo() (*tabs.Collection, bool) {
	if len(h.past) == 0 {
		return h.present, false
	}
	last := len(h.past) - 1
	h.future = append(h.future, h.present)
	h.present = h.past[last]
	h.past = h.past[:last]
	h.coalescing = false
	return h.present, true
}

// Redo re-applies the last undone step. It is a no-op without one.
func (h *History) Redo() (*tabs.Collection, bool) {
	if len(h.future) == 0 {
		return h.present, false
	}
	last := len(h.future) - 1
	h.past = append(h.past, h.present)
	h.present = h.future[last]
	h.future = h.future[:last]
	h.coalescing = false
	return h.present, true
}

// CanUndo reports whether Undo would change the state.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would change the state.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Steps is the number of undo steps available.
func (h *History) Steps() int { return len(h.past) }
