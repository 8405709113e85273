package store

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is what tabtree reads from .tabtree and TABTREE_* variables.
type Config interface {
	BasePath() string
	Backend() string
	HistoryLimit() int
	SnapshotPath() string
	LogLevel() string
}

// LoadConfig looks for a .tabtree file in $TABTREE_CONFIG_PATH and the
// working directory. A missing file is fine; every key has a default.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.tabtree.db")
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("history", 50)
	v.SetDefault("live.snapshot", "")
	v.SetDefault("log-level", "warn")
	v.SetConfigName(".tabtree") // .yaml is implicit
	v.SetEnvPrefix("TABTREE")
	v.AutomaticEnv()

	if override := os.Getenv("TABTREE_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	snapshot, err := homedir.Expand(v.GetString("live.snapshot"))
	if err != nil {
		return nil, fmt.Errorf("store: expand live.snapshot: %w", err)
	}

	cfg := &FileConfig{
		Path:     path,
		Kind:     v.GetString("backend"),
		History:  v.GetInt("history"),
		Snapshot: snapshot,
		Level:    v.GetString("log-level"),
	}
	switch cfg.Kind {
	case BackendDiskv, BackendSQLite, BackendMemory:
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Kind)
	}
	return cfg, nil
}

// FileConfig is the plain Config implementation. Tests build it directly.
type FileConfig struct {
	Path     string `json:"path"`
	Kind     string `json:"backend"`
	History  int    `json:"history"`
	Snapshot string `json:"live.snapshot,omitempty"`
	Level    string `json:"log-level"`
}

func (f *FileConfig) BasePath() string { return f.Path }

func (f *FileConfig) Backend() string {
	if f.Kind == "" {
		return BackendDiskv
	}
	return f.Kind
}

func (f *FileConfig) HistoryLimit() int { return f.History }

func (f *FileConfig) SnapshotPath() string { return f.Snapshot }

func (f *FileConfig) LogLevel() string { return f.Level }
