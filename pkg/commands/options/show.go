package options

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// ShowOptions select how groups are printed.
type ShowOptions struct {
	Tree   bool
	Output string
	Width  int
}

func AddShowArgs(cmd *cobra.Command, o *ShowOptions) {
	cmd.Flags().BoolVarP(&o.Tree, "tree", "t", false,
		"Print windows and tabs of every group.")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "text",
		"Output format. One of 'text', 'json' or 'yaml'.")
	cmd.Flags().IntVar(&o.Width, "width", 0,
		"Truncate tab lines to this many columns (0 is 100).")
}

// Interactive reports whether stdin is a terminal, so commands know whether
// to read piped input.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
