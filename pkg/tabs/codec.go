package tabs

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Marshal serialises the collection into the persisted record format.
func Marshal(c *Collection) ([]byte, error) {
	if c == nil {
		return nil, errors.New("tabs: nil collection")
	}
	return json.Marshal(c)
}

// MarshalIndent is Marshal for humans.
func MarshalIndent(c *Collection) ([]byte, error) {
	if c == nil {
		return nil, errors.New("tabs: nil collection")
	}
	return json.MarshalIndent(c, "", "  ")
}

// MarshalYAML renders the collection as YAML.
func MarshalYAML(c *Collection) ([]byte, error) {
	if c == nil {
		return nil, errors.New("tabs: nil collection")
	}
	return yaml.Marshal(c)
}

// Unmarshal parses a persisted record. Records written as a bare list of groups
// are upgraded with the active pointer on the first group.
func Unmarshal(data []byte) (*Collection, error) {
	if len(data) == 0 {
		return nil, errors.New("tabs: empty record")
	}
	var c Collection
	if err := json.Unmarshal(data, &c); err == nil {
		Normalize(&c)
		return &c, nil
	}
	var legacy []Group
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("tabs: decode record: %w", err)
	}
	c = Collection{Available: legacy}
	Normalize(&c)
	return &c, nil
}

// UnmarshalGroups reads a list of groups from JSON or YAML. Either a bare list
// or a full record is accepted.
func UnmarshalGroups(data []byte) ([]Group, error) {
	var record Collection
	if err := yaml.Unmarshal(data, &record); err == nil && len(record.Available) > 0 {
		return record.Available, nil
	}
	var groups []Group
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("tabs: decode groups: %w", err)
	}
	return groups, nil
}

// UnmarshalWindows reads a live snapshot: either {"windows": [...]} or a bare
// list of windows, in JSON or YAML.
func UnmarshalWindows(data []byte) ([]Window, error) {
	var snapshot struct {
		Windows []Window `yaml:"windows"`
	}
	if err := yaml.Unmarshal(data, &snapshot); err == nil && snapshot.Windows != nil {
		return snapshot.Windows, nil
	}
	var windows []Window
	if err := yaml.Unmarshal(data, &windows); err != nil {
		return nil, fmt.Errorf("tabs: decode windows: %w", err)
	}
	if windows == nil {
		windows = []Window{}
	}
	return windows, nil
}

// Normalize repairs a decoded record so the structural invariants hold: nil
// slices become empty, the first group is permanent and the active pointer
// resolves.
func Normalize(c *Collection) {
	if c == nil {
		return
	}
	if c.Available == nil {
		c.Available = []Group{}
	}
	for i := range c.Available {
		g := &c.Available[i]
		if g.Windows == nil {
			g.Windows = []Window{}
		}
		if g.Color == "" {
			g.Color = DefaultColor
		}
		for j := range g.Windows {
			if g.Windows[j].Tabs == nil {
				g.Windows[j].Tabs = []Tab{}
			}
		}
	}
	if len(c.Available) > 0 {
		c.Available[0].Permanent = true
	}
	if idx := c.IndexOf(c.Active.ID); idx >= 0 {
		c.Active.Index = idx
		return
	}
	if c.Active.Index < 0 || c.Active.Index >= len(c.Available) {
		c.Active.Index = 0
	}
	if len(c.Available) > 0 {
		c.Active.ID = c.Available[c.Active.Index].ID
	}
}
