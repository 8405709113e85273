// Package transfer moves groups in and out of the record as JSON or YAML
// files.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/tabtree/pkg/app"
	"tableflip.dev/tabtree/pkg/reducer"
	"tableflip.dev/tabtree/pkg/tabs"
)

// Formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFor picks the format from a file extension, defaulting to JSON.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Import appends the groups read from Path. The permanent groups of a full
// record are skipped; "-" reads stdin.
type Import struct {
	App  *app.Service
	Path string
	In   io.Reader
	Out  io.Writer
}

// Do reads and imports.
func (n *Import) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not import, no session")
	}
	data, err := n.read()
	if err != nil {
		return err
	}
	groups, err := tabs.UnmarshalGroups(data)
	if err != nil {
		return err
	}
	kept := groups[:0]
	for _, g := range groups {
		if g.Permanent {
			continue
		}
		kept = append(kept, g)
	}
	if len(kept) == 0 {
		return fmt.Errorf("no groups to import in %s", n.Path)
	}
	if _, err := n.App.Dispatch(reducer.ImportGroupsAction{Groups: kept}); err != nil {
		return err
	}
	if err := n.App.Flush(ctx); err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	_, _ = color.New(color.FgGreen).Fprintf(out, "imported %d groups\n", len(kept))
	return nil
}

func (n *Import) read() ([]byte, error) {
	if n.Path == "-" || n.Path == "" {
		in := n.In
		if in == nil {
			in = os.Stdin
		}
		return io.ReadAll(in)
	}
	return os.ReadFile(n.Path)
}

// Export writes the whole record to Path, or to Out when Path is empty.
type Export struct {
	App    *app.Service
	Path   string
	Format string
	Out    io.Writer
}

// Do encodes and writes.
func (n *Export) Do(ctx context.Context) error {
	if n.App == nil {
		return errors.New("can not export, no session")
	}
	format := n.Format
	if format == "" {
		format = FormatFor(n.Path)
	}
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = tabs.MarshalIndent(n.App.State())
	case FormatYAML:
		data, err = tabs.MarshalYAML(n.App.State())
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	if n.Path == "" || n.Path == "-" {
		out := n.Out
		if out == nil {
			out = os.Stdout
		}
		_, err = out.Write(data)
		return err
	}
	return os.WriteFile(n.Path, data, 0o644)
}
