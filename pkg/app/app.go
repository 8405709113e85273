package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"tableflip.dev/tabtree/pkg/drag"
	"tableflip.dev/tabtree/pkg/history"
	"tableflip.dev/tabtree/pkg/live"
	"tableflip.dev/tabtree/pkg/logging"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/store"
	"tableflip.dev/tabtree/pkg/tabs"
)

// ErrClosed reports a call on a closed service.
var ErrClosed = errors.New("app: service closed")

// Options configure Open.
type Options struct {
	Transport store.Transport
	Policy    history.Policy
	// Reducer defaults to reducer.New().
	Reducer *reducer.Reducer
	Logger  *logrus.Logger
	// Live seeds the live group when no record exists yet.
	Live []tabs.Window
}

// Service is one editing session over the persisted collection. CLIs, the
// MCP server and the live tracker share it; calls are serialized.
type Service struct {
	mu     sync.Mutex
	hist   *history.History
	drag   *drag.Controller
	bridge *store.Bridge
	log    *logrus.Entry
	closed bool

	// live windows are replayed after undo/redo and deferred during a gesture
	lastLive    []tabs.Window
	pendingLive []tabs.Window
}

// Open loads (or seeds) the collection and anchors history on it.
func Open(ctx context.Context, opts Options) (*Service, error) {
	if opts.Transport == nil {
		return nil, errors.New("app: no transport configured")
	}
	if opts.Policy.Kinds == nil {
		opts.Policy = history.DefaultPolicy()
	}
	r := opts.Reducer
	if r == nil {
		r = reducer.New()
	}

	bridge := store.NewBridge(opts.Transport, logging.Component(opts.Logger, "store"))
	state, seeded, err := bridge.Load(ctx, opts.Live)
	if err != nil {
		bridge.Close(ctx)
		return nil, err
	}

	s := &Service{
		hist:   history.New(state, r.Reduce, opts.Policy),
		bridge: bridge,
		log:    logging.Component(opts.Logger, "app"),
	}
	s.drag = drag.New(locked{s}, logging.Component(opts.Logger, "drag"))

	// stale info caches are repaired before history is anchored
	if s.refreshInfo(false) {
		s.bridge.Save(s.hist.Present())
	}
	s.hist.Reset(s.hist.Present())
	s.log.WithFields(logrus.Fields{"groups": len(state.Available), "seeded": seeded}).Debug("opened")
	return s, nil
}

// State is the current collection. Callers must not modify it.
func (s *Service) State() *tabs.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Present()
}

// Dispatch validates and applies one action. Deletes, moves and combines
// are followed by the garbage collection they owe. It reports whether the
// collection changed.
func (s *Service) Dispatch(a reducer.Action) (bool, error) {
	return s.cascade(a, cleanup(a)...)
}

// DeleteTab removes a tab, then the window and group it may have emptied.
func (s *Service) DeleteTab(g, w, t int) error {
	_, err := s.Dispatch(reducer.DeleteTabAction{Group: g, Window: w, Tab: t})
	return err
}

// DeleteWindow removes a window, then the group it may have emptied.
func (s *Service) DeleteWindow(g, w int) error {
	_, err := s.Dispatch(reducer.DeleteWindowAction{Group: g, Window: w})
	return err
}

// DeleteGroup removes a non-permanent group.
func (s *Service) DeleteGroup(g int) error {
	_, err := s.Dispatch(reducer.DeleteGroupAction{Group: g})
	return err
}

// Move reorders a tab within group g, across its windows if asked, and prunes
// the window it may have emptied.
func (s *Service) Move(a reducer.UpdateTabsFromGroupDnDAction) (bool, error) {
	return s.Dispatch(a)
}

// Combine moves a tab (t >= 0) or a whole window (t < 0) into group dst and
// prunes what the move emptied.
func (s *Service) Combine(g, w, t, dst int) (bool, error) {
	if t < 0 {
		return s.Dispatch(reducer.UpdateWindowsFromSidePanelDnDAction{Group: g, Window: w, Destination: dst})
	}
	return s.Dispatch(reducer.UpdateTabsFromSidePanelDnDAction{Group: g, Window: w, Tab: t, Destination: dst})
}

// cleanup lists the garbage collection that follows a. Windows emptied in the
// source group go first since pruning groups can shift indices.
func cleanup(a reducer.Action) []reducer.Action {
	var g int
	switch a := a.(type) {
	case reducer.DeleteTabAction:
		g = a.Group
	case reducer.UpdateTabsFromGroupDnDAction:
		g = a.Group
	case reducer.UpdateTabsFromSidePanelDnDAction:
		g = a.Group
	case reducer.UpdateWindowsFromSidePanelDnDAction:
		g = a.Group
	case reducer.DeleteWindowAction:
		return []reducer.Action{reducer.ClearEmptyGroupsAction{}}
	default:
		return nil
	}
	return []reducer.Action{reducer.ClearEmptyWindowsAction{Group: g}, reducer.ClearEmptyGroupsAction{}}
}

func (s *Service) cascade(first reducer.Action, rest ...reducer.Action) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	if err := reducer.Validate(s.hist.Present(), first); err != nil {
		return false, fmt.Errorf("app: %s: %w", typeOf(first), err)
	}
	if _, changed := s.apply(first); !changed {
		return false, nil
	}
	// scaffolding of a running gesture is swept by the drop
	if s.hist.InGesture() {
		return true, nil
	}
	for _, a := range rest {
		s.apply(a)
	}
	return true, nil
}

// Undo steps back once; it reports whether there was a step.
func (s *Service) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.hist.InGesture() {
		return false
	}
	if _, ok := s.hist.Undo(); !ok {
		return false
	}
	s.afterTimeTravel()
	return true
}

// Redo re-applies the last undone step.
func (s *Service) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.hist.InGesture() {
		return false
	}
	if _, ok := s.hist.Redo(); !ok {
		return false
	}
	s.afterTimeTravel()
	return true
}

func (s *Service) afterTimeTravel() {
	if s.lastLive != nil {
		s.hist.Dispatch(reducer.UpdateWindowsAction{Group: 0, Windows: s.lastLive})
		s.refreshInfo(true)
	}
	s.bridge.Save(s.hist.Present())
}

// CanUndo reports whether Undo would do anything.
func (s *Service) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (s *Service) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanRedo()
}

// ApplyLive replaces the windows of the live group. During a drag the
// snapshot is held back until the gesture ends.
func (s *Service) ApplyLive(windows []tabs.Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	windows = tabs.CloneWindows(windows)
	if s.hist.InGesture() {
		s.pendingLive = windows
		return
	}
	s.applyLive(windows)
}

func (s *Service) applyLive(windows []tabs.Window) {
	s.lastLive = windows
	s.apply(reducer.UpdateWindowsAction{Group: 0, Windows: windows})
}

// Follow applies every snapshot from the tracker until ctx is done.
func (s *Service) Follow(ctx context.Context, t *live.Tracker) error {
	snapshots, err := t.Watch(ctx)
	if err != nil {
		return err
	}
	for snap := range snapshots {
		if snap.Err != nil {
			continue
		}
		s.ApplyLive(snap.Windows)
	}
	return ctx.Err()
}

// Flush waits for queued writes.
func (s *Service) Flush(ctx context.Context) error {
	return s.bridge.Flush(ctx)
}

// LastWriteError is the error of the latest write, if it failed.
func (s *Service) LastWriteError() error {
	return s.bridge.LastError()
}

// Close flushes and stops the writer.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.bridge.Close(ctx)
}

// apply runs a through history and persists the result. The lock is held.
func (s *Service) apply(a reducer.Action) (*tabs.Collection, bool) {
	next, changed := s.hist.Dispatch(a)
	if !changed {
		return next, false
	}
	s.log.WithField("action", typeOf(a)).Debug("dispatched")
	if s.hist.InGesture() {
		return next, true
	}
	s.refreshInfo(s.hist.Policy().KindOf(a) == history.Ignore)
	s.bridge.Save(s.hist.Present())
	return s.hist.Present(), true
}

// refreshInfo recomputes stale info caches. Refreshes that follow an ignored
// change stay out of history as well.
func (s *Service) refreshInfo(quiet bool) bool {
	changed := false
	state := s.hist.Present()
	for i, g := range state.Available {
		if g.Info == tabs.Info(g) {
			continue
		}
		var a reducer.Action = reducer.UpdateInfoAction{Group: i}
		if quiet {
			a = reducer.Scaffold(a)
		}
		if _, ok := s.hist.Dispatch(a); ok {
			changed = true
		}
	}
	return changed
}

func typeOf(a reducer.Action) reducer.Type {
	if a == nil {
		return ""
	}
	return a.Type()
}

// locked lets the drag controller dispatch while a Service method holds the
// lock.
type locked struct{ s *Service }

func (l locked) Present() *tabs.Collection { return l.s.hist.Present() }

func (l locked) Dispatch(a reducer.Action) (*tabs.Collection, bool) { return l.s.apply(a) }

func (l locked) BeginGesture() { l.s.hist.BeginGesture() }

func (l locked) EndGesture() {
	l.s.hist.EndGesture()
	l.s.refreshInfo(false)
	if l.s.pendingLive != nil {
		windows := l.s.pendingLive
		l.s.pendingLive = nil
		l.s.applyLive(windows)
	}
	l.s.bridge.Save(l.s.hist.Present())
}
