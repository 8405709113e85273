package app

import (
	"sort"
	"time"

	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/tabs"
)

// ReportItem is one group touched inside the report window.
type ReportItem struct {
	Index     int       `json:"index"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Tabs      int       `json:"tabs"`
	Windows   int       `json:"windows"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReportResult lists the groups updated between Since and Until, newest first.
type ReportResult struct {
	Since time.Time    `json:"since"`
	Until time.Time    `json:"until"`
	Items []ReportItem `json:"items"`
	Total int          `json:"total"`
}

// Report returns the groups whose last update falls between the bounds.
// Permanent groups are left out.
func (s *Service) Report(since, until time.Time) ReportResult {
	return Report(s.State(), since, until)
}

// Report builds the activity report for c.
func Report(c *tabs.Collection, since, until time.Time) ReportResult {
	if since.After(until) {
		since, until = until, since
	}
	result := ReportResult{Since: since, Until: until}
	if c == nil {
		return result
	}
	for i, g := range c.Available {
		if g.Permanent || g.UpdatedAt == 0 {
			continue
		}
		at := time.UnixMilli(g.UpdatedAt)
		if at.Before(since) || at.After(until) {
			continue
		}
		result.Items = append(result.Items, ReportItem{
			Index:     i,
			ID:        g.ID,
			Name:      g.Name,
			Color:     g.Color,
			Tabs:      g.TabCount(),
			Windows:   len(g.Windows),
			UpdatedAt: at,
		})
		result.Total += g.TabCount()
	}
	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].UpdatedAt.After(result.Items[j].UpdatedAt)
	})
	return result
}

// GC drops empty windows from every group, then the groups left empty.
func (s *Service) GC() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	changed := false
	for i := range s.hist.Present().Available {
		if _, ok := s.apply(reducer.ClearEmptyWindowsAction{Group: i}); ok {
			changed = true
		}
	}
	if _, ok := s.apply(reducer.ClearEmptyGroupsAction{}); ok {
		changed = true
	}
	return changed, nil
}
