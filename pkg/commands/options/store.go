// Package options defines shared flag helpers for CLI commands.
package options

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"tableflip.dev/tabtree/pkg/store"
)

// StoreOptions override the config file for one invocation.
type StoreOptions struct {
	Path     string
	Backend  string
	Snapshot string
	LogLevel string
}

// AddStoreArgs registers the persistent storage flags.
func AddStoreArgs(cmd *cobra.Command, o *StoreOptions) {
	cmd.PersistentFlags().StringVar(&o.Path, "path", "",
		"Record location, overriding the config file.")
	cmd.PersistentFlags().StringVar(&o.Backend, "backend", "",
		"Record backend: diskv, sqlite or memory.")
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "",
		"Log level: debug, info, warn or error.")
}

// AddSnapshotArg registers --snapshot on commands that follow the live file.
func AddSnapshotArg(cmd *cobra.Command, o *StoreOptions) {
	cmd.Flags().StringVar(&o.Snapshot, "snapshot", "",
		"Live snapshot file, overriding live.snapshot.")
}

// Config loads the config file and applies the flags on top.
func (o *StoreOptions) Config() (store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	fc := &store.FileConfig{
		Path:     cfg.BasePath(),
		Kind:     cfg.Backend(),
		History:  cfg.HistoryLimit(),
		Snapshot: cfg.SnapshotPath(),
		Level:    cfg.LogLevel(),
	}
	if o.Path != "" {
		if fc.Path, err = homedir.Expand(o.Path); err != nil {
			return nil, err
		}
	}
	if o.Snapshot != "" {
		if fc.Snapshot, err = homedir.Expand(o.Snapshot); err != nil {
			return nil, err
		}
	}
	if o.Backend != "" {
		switch o.Backend {
		case store.BackendDiskv, store.BackendSQLite, store.BackendMemory:
		default:
			return nil, fmt.Errorf("unknown backend %q", o.Backend)
		}
		fc.Kind = o.Backend
	}
	if o.LogLevel != "" {
		fc.Level = o.LogLevel
	}
	return fc, nil
}
