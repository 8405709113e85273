package printers

// Mark is a symbol the tree printer uses.
type Mark struct {
	Symbol  string
	Meaning string
}

const (
	swatchMark   = "●"
	starMark     = "★"
	pinnedMark   = "^"
	activeMark   = "*"
	ellipsisTail = "…"
)

// Marks lists every symbol Group and Groups print, in legend order.
func Marks() []Mark {
	return []Mark{
		{Symbol: swatchMark, Meaning: "group color"},
		{Symbol: activeMark, Meaning: "active group"},
		{Symbol: starMark, Meaning: "starred window"},
		{Symbol: pinnedMark, Meaning: "pinned tab"},
		{Symbol: ellipsisTail, Meaning: "truncated to --width"},
	}
}
