package tabs

import (
	"errors"
	"fmt"
)

// Info renders the summary cached on a group, e.g. "12T | 3W".
func Info(g Group) string {
	return fmt.Sprintf("%dT | %dW", g.TabCount(), len(g.Windows))
}

// Seed builds the collection used on first launch: the live group followed by
// the duplicates group, both permanent.
func Seed(liveID, duplicatesID string, now int64, live []Window) *Collection {
	if live == nil {
		live = []Window{}
	}
	liveGroup := Group{
		ID:        liveID,
		Name:      LiveGroupName,
		Color:     DefaultColor,
		UpdatedAt: now,
		Windows:   CloneWindows(live),
		Permanent: true,
	}
	liveGroup.Info = Info(liveGroup)
	dupes := Group{
		ID:        duplicatesID,
		Name:      DuplicatesGroupName,
		Color:     DefaultColor,
		UpdatedAt: now,
		Windows:   []Window{},
		Permanent: true,
	}
	dupes.Info = Info(dupes)
	return &Collection{
		Active:    Active{ID: liveID, Index: 0},
		Available: []Group{liveGroup, dupes},
	}
}

// Location addresses a tab by position.
type Location struct {
	Group  int `json:"group"`
	Window int `json:"window"`
	Tab    int `json:"tab"`
}

// Walk calls fn for every tab in the collection in display order. Returning
// false stops the walk.
func (c *Collection) Walk(fn func(loc Location, t Tab) bool) {
	if c == nil {
		return
	}
	for gi, g := range c.Available {
		for wi, w := range g.Windows {
			for ti, t := range w.Tabs {
				if !fn(Location{Group: gi, Window: wi, Tab: ti}, t) {
					return
				}
			}
		}
	}
}

// Duplicates returns one tab per URL that appears more than once across the
// non-permanent groups, in first-seen order.
func (c *Collection) Duplicates() []Tab {
	seen := map[string]int{}
	first := map[string]Tab{}
	order := []string{}
	c.Walk(func(loc Location, t Tab) bool {
		if c.Available[loc.Group].Permanent || t.URL == "" {
			return true
		}
		if seen[t.URL] == 0 {
			first[t.URL] = t
			order = append(order, t.URL)
		}
		seen[t.URL]++
		return true
	})
	out := []Tab{}
	for _, url := range order {
		if seen[url] > 1 {
			out = append(out, first[url])
		}
	}
	return out
}

var (
	// ErrNoGroups reports a collection without the permanent first group.
	ErrNoGroups = errors.New("tabs: collection has no groups")
	// ErrNotPermanent reports a first group that is not permanent.
	ErrNotPermanent = errors.New("tabs: first group is not permanent")
	// ErrDanglingActive reports an active pointer that does not resolve.
	ErrDanglingActive = errors.New("tabs: active pointer does not resolve")
	// ErrDuplicateID reports two groups sharing an id.
	ErrDuplicateID = errors.New("tabs: duplicate group id")
)

// Check verifies the invariants that must hold after every mutation.
func (c *Collection) Check() error {
	if c == nil || len(c.Available) == 0 {
		return ErrNoGroups
	}
	if !c.Available[0].Permanent {
		return ErrNotPermanent
	}
	g, ok := c.ActiveGroup()
	if !ok || g.ID != c.Active.ID {
		return fmt.Errorf("%w: %+v", ErrDanglingActive, c.Active)
	}
	ids := make(map[string]struct{}, len(c.Available))
	for _, g := range c.Available {
		if _, dup := ids[g.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateID, g.ID)
		}
		ids[g.ID] = struct{}{}
	}
	return nil
}
