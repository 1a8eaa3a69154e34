package terminal

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks text cut by Truncate. It occupies one column.
const Ellipsis = "…"

// VisualWidth returns the number of terminal columns s occupies.
// Escape sequences count as zero; wide glyphs and emoji count as two.
// Width is measured per grapheme, the same way Truncate cuts, so an emoji
// with a variation selector counts as two.
func VisualWidth(s string) int {
	return ansi.StringWidth(s)
}

// Truncate cuts s to at most width columns without splitting a glyph.
// A cut string ends in Ellipsis, and in a style reset when s carried
// escape sequences.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if VisualWidth(s) <= width {
		return s
	}
	out := ansi.Truncate(s, width, Ellipsis)
	if strings.ContainsRune(s, '\x1b') {
		out += Reset
	}
	return out
}

// PadRight pads s with spaces to width columns. Wider strings are returned as is.
func PadRight(s string, width int) string {
	if w := VisualWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// Fit returns s truncated or padded to exactly width columns.
func Fit(s string, width int) string {
	return PadRight(Truncate(s, width), width)
}
