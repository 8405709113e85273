// Package mcp exposes a tabtree session over the Model Context Protocol.
package mcp

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/drag"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/tabs"
	"tableflip.dev/tabtree/pkg/timeutil"
)

// Service adapts an app.Service to transport-friendly results.
type Service struct {
	App *app.Service
	// Now is used for report windows; tests pin it.
	Now func() time.Time
}

// GroupSummary describes a group without its tabs.
type GroupSummary struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Info      string `json:"info"`
	Tabs      int    `json:"tabs"`
	Windows   int    `json:"windows"`
	Permanent bool   `json:"permanent"`
	Active    bool   `json:"active"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// GroupDTO is a group with its windows.
type GroupDTO struct {
	GroupSummary
	WindowList []tabs.Window `json:"windowList"`
}

// Overview summarizes the whole collection.
type Overview struct {
	Active  tabs.Active    `json:"active"`
	Groups  []GroupSummary `json:"groups"`
	Tabs    int            `json:"tabs"`
	CanUndo bool           `json:"canUndo"`
	CanRedo bool           `json:"canRedo"`
}

// Result reports the effect of a mutation.
type Result struct {
	Action  reducer.Type `json:"action,omitempty"`
	Changed bool         `json:"changed"`
	Reason  string       `json:"reason,omitempty"`
	Groups  int          `json:"groups"`
	Active  tabs.Active  `json:"active"`
	CanUndo bool         `json:"canUndo"`
	CanRedo bool         `json:"canRedo"`
}

// NewService wraps a.
func NewService(a *app.Service) *Service {
	return &Service{App: a, Now: time.Now}
}

func (s *Service) check() error {
	if s == nil || s.App == nil {
		return errors.New("session is not configured")
	}
	return nil
}

// Overview lists every group.
func (s *Service) Overview() (Overview, error) {
	if err := s.check(); err != nil {
		return Overview{}, err
	}
	c := s.App.State()
	out := Overview{
		Active:  c.Active,
		Groups:  make([]GroupSummary, 0, len(c.Available)),
		Tabs:    c.TabCount(),
		CanUndo: s.App.CanUndo(),
		CanRedo: s.App.CanRedo(),
	}
	for i, g := range c.Available {
		out.Groups = append(out.Groups, summarize(c, i, g))
	}
	return out, nil
}

// Group resolves ref, a group index or id, into its full projection.
func (s *Service) Group(ref string) (GroupDTO, error) {
	if err := s.check(); err != nil {
		return GroupDTO{}, err
	}
	c := s.App.State()
	i, err := app.ResolveGroup(c, ref)
	if err != nil {
		return GroupDTO{}, err
	}
	g := c.Available[i]
	return GroupDTO{GroupSummary: summarize(c, i, g), WindowList: g.Windows}, nil
}

// Dispatch decodes and applies one action.
func (s *Service) Dispatch(t reducer.Type, payload json.RawMessage) (Result, error) {
	if err := s.check(); err != nil {
		return Result{}, err
	}
	a, err := reducer.Decode(t, payload)
	if err != nil {
		return Result{}, err
	}
	return s.apply(a)
}

func (s *Service) apply(a reducer.Action) (Result, error) {
	switch a := a.(type) {
	case reducer.DeleteTabAction:
		return s.result(a.Type(), true, s.App.DeleteTab(a.Group, a.Window, a.Tab))
	case reducer.DeleteWindowAction:
		return s.result(a.Type(), true, s.App.DeleteWindow(a.Group, a.Window))
	}
	changed, err := s.App.Dispatch(a)
	return s.result(a.Type(), changed, err)
}

func (s *Service) result(t reducer.Type, changed bool, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	c := s.App.State()
	return Result{
		Action:  t,
		Changed: changed,
		Groups:  len(c.Available),
		Active:  c.Active,
		CanUndo: s.App.CanUndo(),
		CanRedo: s.App.CanRedo(),
	}, nil
}

// AddGroup appends a group with a validated color.
func (s *Service) AddGroup(name, color string) (Result, error) {
	if err := s.check(); err != nil {
		return Result{}, err
	}
	hex, err := tabs.ParseColor(color)
	if err != nil {
		return Result{}, err
	}
	return s.apply(reducer.AddGroupAction{Name: name, Color: hex})
}

// Recolor sets a group's color.
func (s *Service) Recolor(ref, color string) (Result, error) {
	if err := s.check(); err != nil {
		return Result{}, err
	}
	i, err := app.ResolveGroup(s.App.State(), ref)
	if err != nil {
		return Result{}, err
	}
	hex, err := tabs.ParseColor(color)
	if err != nil {
		return Result{}, err
	}
	return s.apply(reducer.UpdateColorAction{Group: i, Color: hex})
}

// Rename sets a group's name.
func (s *Service) Rename(ref, name string) (Result, error) {
	if err := s.check(); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(name) == "" {
		return Result{}, errors.New("name is required")
	}
	i, err := app.ResolveGroup(s.App.State(), ref)
	if err != nil {
		return Result{}, err
	}
	return s.apply(reducer.UpdateNameAction{Group: i, Name: name})
}

// Activate makes ref the active group.
func (s *Service) Activate(ref string) (Result, error) {
	if err := s.check(); err != nil {
		return Result{}, err
	}
	i, err := app.ResolveGroup(s.App.State(), ref)
	if err != nil {
		return Result{}, err
	}
	return s.apply(reducer.UpdateActiveAction{Group: i})
}

// DeleteGroup removes ref.
func (s *Service) DeleteGroup(ref string) (Result, error) {
	if err := s.check(); err != nil {
		return Result{}, err
	}
	i, err := app.ResolveGroup(s.App.State(), ref)
	if err != nil {
		return Result{}, err
	}
	return s.result(reducer.DeleteGroup, true, s.App.DeleteGroup(i))
}

// Drop runs a whole drag gesture.
func (s *Service) Drop(r drag.DropResult) (Result, error) {
	if err := s.check(); err != nil {
		return Result{}, err
	}
	out, err := s.App.Drop(r)
	if err != nil {
		return Result{}, err
	}
	var t reducer.Type
	if out.Action != nil {
		t = out.Action.Type()
	}
	res, err := s.result(t, out.Changed, nil)
	if out.Reason != nil {
		res.Reason = out.Reason.Error()
	}
	return res, err
}

// Undo steps back once.
func (s *Service) Undo() (Result, error) {
	if err := s.check(); err != nil {
		return Result{}, err
	}
	return s.result("", s.App.Undo(), nil)
}

// Redo re-applies the last undone step.
func (s *Service) Redo() (Result, error) {
	if err := s.check(); err != nil {
		return Result{}, err
	}
	return s.result("", s.App.Redo(), nil)
}

// GC clears empty windows and groups.
func (s *Service) GC() (Result, error) {
	if err := s.check(); err != nil {
		return Result{}, err
	}
	changed, err := s.App.GC()
	return s.result(reducer.ClearEmptyGroups, changed, err)
}

// Find ranks tabs against query, returning at most limit matches.
func (s *Service) Find(query string, limit int) ([]app.Match, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	matches := s.App.Find(query)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		matches = []app.Match{}
	}
	return matches, nil
}

// Report lists the groups touched within window, e.g. "3d".
func (s *Service) Report(window string) (app.ReportResult, error) {
	if err := s.check(); err != nil {
		return app.ReportResult{}, err
	}
	d, _, err := timeutil.ParseWindow(window)
	if err != nil {
		return app.ReportResult{}, err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	until := now()
	return s.App.Report(until.Add(-d), until), nil
}

func summarize(c *tabs.Collection, i int, g tabs.Group) GroupSummary {
	sum := GroupSummary{
		Index:     i,
		ID:        g.ID,
		Name:      g.Name,
		Color:     g.Color,
		Info:      g.Info,
		Tabs:      g.TabCount(),
		Windows:   len(g.Windows),
		Permanent: g.Permanent,
		Active:    c.Active.Index == i,
	}
	if g.UpdatedAt != 0 {
		sum.UpdatedAt = time.UnixMilli(g.UpdatedAt).UTC().Format(time.RFC3339)
	}
	return sum
}
