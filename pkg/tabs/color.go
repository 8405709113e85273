package tabs

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseColor accepts "#rgb" or "#rrggbb", with or without the leading hash,
// and returns the lower-case "#rrggbb" form stored on groups.
func ParseColor(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return DefaultColor, nil
	}
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	// colorful.Hex tolerates short and trailing digits
	if len(v) != 4 && len(v) != 7 {
		return "", fmt.Errorf("tabs: invalid color %q", s)
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return "", fmt.Errorf("tabs: invalid color %q", s)
	}
	return c.Hex(), nil
}

// RGB returns the 8-bit channels of a stored color, falling back to the
// default gray for anything unparsable.
func RGB(hex string) (r, g, b uint8) {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(DefaultColor)
	}
	return c.RGB255()
}
