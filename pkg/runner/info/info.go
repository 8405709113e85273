// Package info reports where tabtree keeps its record and what is in it.
package info

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/store"
)

// Info prints the effective config and a summary of the record.
type Info struct {
	Config store.Config
	App    *app.Service
	JSON   bool
	Out    io.Writer
}

// Summary is what --json prints.
type Summary struct {
	ConfigPath string `json:"configPath,omitempty"`
	Path       string `json:"path"`
	Backend    string `json:"backend"`
	History    int    `json:"history"`
	Snapshot   string `json:"snapshot,omitempty"`
	LogLevel   string `json:"logLevel"`
	Groups     int    `json:"groups"`
	Windows    int    `json:"windows"`
	Tabs       int    `json:"tabs"`
	Duplicates int    `json:"duplicates"`
	Active     string `json:"active"`
}

// Do prints the summary.
func (n *Info) Do(ctx context.Context) error {
	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}
	s := Summary{
		ConfigPath: os.Getenv("TABTREE_CONFIG_PATH"),
		Path:       n.Config.BasePath(),
		Backend:    n.Config.Backend(),
		History:    n.Config.HistoryLimit(),
		Snapshot:   n.Config.SnapshotPath(),
		LogLevel:   n.Config.LogLevel(),
	}
	if n.App != nil {
		c := n.App.State()
		s.Groups = len(c.Available)
		s.Tabs = c.TabCount()
		s.Duplicates = len(c.Duplicates())
		for _, g := range c.Available {
			s.Windows += len(g.Windows)
		}
		if g, ok := c.ActiveGroup(); ok {
			s.Active = g.Name
		}
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	if n.JSON {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	if s.ConfigPath != "" {
		tbl.AddRow("TABTREE_CONFIG_PATH", s.ConfigPath)
	} else {
		tbl.AddRow("TABTREE_CONFIG_PATH", "not set")
	}
	tbl.AddRow("path", s.Path)
	tbl.AddRow("backend", s.Backend)
	tbl.AddRow("history", s.History)
	if s.Snapshot != "" {
		tbl.AddRow("live.snapshot", s.Snapshot)
	}
	tbl.AddRow("log-level", s.LogLevel)
	tbl.AddRow("groups", s.Groups)
	tbl.AddRow("windows", s.Windows)
	tbl.AddRow("tabs", s.Tabs)
	tbl.AddRow("duplicates", s.Duplicates)
	tbl.AddRow("active", s.Active)
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}
