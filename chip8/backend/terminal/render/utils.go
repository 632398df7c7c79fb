package render

// Half-block glyphs pack two vertically adjacent pixels into one cell.
const (
	BlockFull  = '█'
	BlockUpper = '▀'
	BlockLower = '▄'
	BlockEmpty = ' '
)

// GetHalfBlockChar returns the glyph showing the top and bottom pixels of a cell.
func GetHalfBlockChar(top, bottom bool) rune {
	switch {
	case top && bottom:
		return BlockFull
	case top:
		return BlockUpper
	case bottom:
		return BlockLower
	default:
		return BlockEmpty
	}
}

// Truncate shortens s to at most width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(runes) <= width {
		return s
	}
	if width > 3 {
		return string(runes[:width-3]) + "..."
	}
	return string(runes[:width])
}
