package app

import (
	"fmt"

	"tableflip.dev/tabtree/pkg/drag"
)

// BeforeCapture starts a gesture on draggable id.
func (s *Service) BeforeCapture(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.drag.BeforeCapture(id)
}

// DragStart moves the captured gesture into the dragging phase.
func (s *Service) DragStart(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.DragStart(id)
}

// DragUpdate reports whether releasing at u would change anything.
func (s *Service) DragUpdate(u drag.DropResult) (drag.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.DragUpdate(u)
}

// DragEnd drops the running gesture.
func (s *Service) DragEnd(result drag.DropResult) (drag.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.DragEnd(result)
}

// CancelDrag abandons the running gesture.
func (s *Service) CancelDrag() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Cancel()
}

// Dragging reports the phase of the running gesture.
func (s *Service) Dragging() drag.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Phase()
}

// Drop runs a whole gesture for result in one call: capture, start and end.
// Non-interactive callers use it.
func (s *Service) Drop(result drag.DropResult) (drag.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return drag.Outcome{}, ErrClosed
	}
	if err := s.drag.BeforeCapture(result.DraggableID); err != nil {
		return drag.Outcome{}, fmt.Errorf("app: drop: %w", err)
	}
	if err := s.drag.DragStart(result.DraggableID); err != nil {
		s.drag.Cancel()
		return drag.Outcome{}, fmt.Errorf("app: drop: %w", err)
	}
	return s.drag.DragEnd(s.resolveScaffold(result))
}

// resolveScaffold maps the "new window" and "new group" drop targets onto the
// scaffolding the running gesture created.
func (s *Service) resolveScaffold(result drag.DropResult) drag.DropResult {
	sc, ok := s.drag.Scaffolding()
	if !ok {
		return result
	}
	switch {
	case result.Destination != nil && result.Destination.DroppableID == NewWindowTarget:
		result.Destination = &drag.Location{DroppableID: drag.TabsDroppable(sc.Window), Index: 0}
	case result.Combine != nil && result.Combine.DraggableID == NewGroupTarget:
		result.Combine = &drag.Combine{DraggableID: drag.GroupID(sc.NewGroup), DroppableID: drag.SidePanelDroppable}
	}
	return result
}

// Drop targets that only exist while a gesture runs.
const (
	NewWindowTarget = "tabs-new"
	NewGroupTarget  = "group-new"
)
