package transfer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/logging"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/store"
)

func openApp(t *testing.T) *app.Service {
	t.Helper()
	s, err := app.Open(context.Background(), app.Options{Transport: store.NewMemory(), Logger: logging.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]string{
		"backup.yaml": FormatYAML,
		"backup.YML":  FormatYAML,
		"backup.json": FormatJSON,
		"":            FormatJSON,
	} {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	color.NoColor = true
	ctx := context.Background()
	src := openApp(t)
	if _, err := src.Dispatch(reducer.AddGroupAction{Name: "Reading", Color: "#336699"}); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Dispatch(reducer.AddWindowAction{Group: 2}); err != nil {
		t.Fatal(err)
	}

	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "backup."+format)
			if err := (&Export{App: src, Path: path}).Do(ctx); err != nil {
				t.Fatalf("export: %v", err)
			}

			dst := openApp(t)
			var out bytes.Buffer
			if err := (&Import{App: dst, Path: path, Out: &out}).Do(ctx); err != nil {
				t.Fatalf("import: %v", err)
			}
			c := dst.State()
			if len(c.Available) != 3 || c.Available[2].Name != "Reading" || c.Available[2].Color != "#336699" {
				t.Fatalf("unexpected groups after import: %+v", c.Available)
			}
			if !strings.Contains(out.String(), "imported 1 groups") {
				t.Fatalf("output = %q", out.String())
			}
		})
	}
}

func TestImportStdinAndEmpty(t *testing.T) {
	ctx := context.Background()
	dst := openApp(t)
	in := strings.NewReader("- name: Later\n  windows: []\n")
	if err := (&Import{App: dst, Path: "-", In: in, Out: &bytes.Buffer{}}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if got := dst.State().Available[2].Name; got != "Later" {
		t.Fatalf("name = %q", got)
	}

	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := (&Import{App: dst, Path: path}).Do(ctx); err == nil {
		t.Fatalf("expected error for an empty import")
	}
}
