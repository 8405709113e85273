package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tableflip.dev/tabtree/pkg/logging"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/store"
	"tableflip.dev/tabtree/pkg/tabs"
)

func TestOpenSeedsFromSnapshot(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "windows.yaml")
	if err := os.WriteFile(snapshot, []byte("windows:\n- tabs:\n  - title: Go\n    url: https://go.dev\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &store.FileConfig{Path: filepath.Join(dir, "db"), Kind: store.BackendMemory, History: 5, Snapshot: snapshot}

	s, err := Open(context.Background(), Options{Config: cfg, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close(context.Background())

	c := s.State()
	if len(c.Available) != 2 || c.Available[0].Name != tabs.LiveGroupName {
		t.Fatalf("unexpected seed %+v", c.Available)
	}
	if got := c.Available[0].Windows[0].Tabs[0].URL; got != "https://go.dev" {
		t.Fatalf("live group not seeded from snapshot, got %q", got)
	}
	if s.Tracker() == nil || s.Tracker().Path() != snapshot {
		t.Fatalf("tracker not configured")
	}
}

func TestOpenPersistsAcrossSessions(t *testing.T) {
	mem := store.NewMemory()
	cfg := &store.FileConfig{Kind: store.BackendMemory}
	ctx := context.Background()

	s, err := Open(ctx, Options{Config: cfg, Logger: logging.Discard(), Transport: mem})
	if err != nil {
		t.Fatal(err)
	}
	if s.Tracker() != nil {
		t.Fatalf("tracker without snapshot path")
	}
	if _, err := s.Dispatch(reducer.AddGroupAction{Name: "Reading"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	again, err := Open(ctx, Options{Config: cfg, Logger: logging.Discard(), Transport: mem})
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close(ctx)
	c := again.State()
	if len(c.Available) != 3 || c.Available[2].Name != "Reading" {
		t.Fatalf("group not persisted: %+v", c.Available)
	}
}
