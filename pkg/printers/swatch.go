package printers

import (
	"github.com/fatih/color"
	colorful "github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/tabtree/pkg/tabs"
)

type paletteEntry struct {
	hex  string
	attr color.Attribute
}

// The terminal palette group colors are mapped onto.
var palette = []paletteEntry{
	{"#000000", color.FgBlack},
	{"#cd0000", color.FgRed},
	{"#00cd00", color.FgGreen},
	{"#cdcd00", color.FgYellow},
	{"#0000ee", color.FgBlue},
	{"#cd00cd", color.FgMagenta},
	{"#00cdcd", color.FgCyan},
	{"#e5e5e5", color.FgWhite},
	{"#7f7f7f", color.FgHiBlack},
	{"#ff0000", color.FgHiRed},
	{"#00ff00", color.FgHiGreen},
	{"#ffff00", color.FgHiYellow},
	{"#5c5cff", color.FgHiBlue},
	{"#ff00ff", color.FgHiMagenta},
	{"#00ffff", color.FgHiCyan},
	{"#ffffff", color.FgHiWhite},
}

// Nearest returns the terminal color closest to hex in Lab space. Unparseable
// colors map onto the default group color.
func Nearest(hex string) color.Attribute {
	r, g, b := tabs.RGB(hex)
	want := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	best, dist := palette[0].attr, -1.0
	for _, p := range palette {
		c, err := colorful.Hex(p.hex)
		if err != nil {
			continue
		}
		if d := want.DistanceLab(c); dist < 0 || d < dist {
			best, dist = p.attr, d
		}
	}
	return best
}

// Swatch renders a colored block for a group color.
func Swatch(hex string) string {
	return color.New(Nearest(hex)).Sprint(swatchMark)
}
