package options

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/tabtree/pkg/tabs"
)

// ColorValue is a pflag.Value holding a normalized "#rrggbb" group color.
type ColorValue struct {
	Hex string
}

var _ pflag.Value = (*ColorValue)(nil)

func (c *ColorValue) String() string { return c.Hex }

func (c *ColorValue) Set(s string) error {
	hex, err := tabs.ParseColor(s)
	if err != nil {
		return err
	}
	c.Hex = hex
	return nil
}

func (c *ColorValue) Type() string { return "color" }

func AddColorArg(cmd *cobra.Command, c *ColorValue) {
	if c.Hex == "" {
		c.Hex = tabs.DefaultColor
	}
	cmd.Flags().Var(c, "color", `Group color as "#rgb" or "#rrggbb".`)
}
