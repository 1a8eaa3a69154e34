package terminal

// Style is a rendering tag resolved to escape sequences only when drawn.
type Style int

const (
	StyleDefault Style = iota
	StyleBold
	StyleDim
	StyleHighlighted
	StyleMatch
	StyleActiveMatch
	StyleStatus

	// stylePalette is the first of the palette styles returned by Palette.
	stylePalette
)

// paletteColors cycles through the base colours then their bright variants.
var paletteColors = []string{
	Blue, Green, Magenta, Cyan, Yellow,
	"\033[94m", "\033[92m", "\033[95m", "\033[96m", "\033[93m",
}

// Palette returns the n-th group colour. It wraps around.
func Palette(n int) Style {
	k := len(paletteColors)
	return stylePalette + Style((n%k+k)%k)
}

func (s Style) prefix() string {
	switch s {
	case StyleDefault:
		return ""
	case StyleBold:
		return Bold
	case StyleDim:
		return Dim
	case StyleHighlighted:
		return Bold + Reverse
	case StyleMatch:
		return Yellow
	case StyleActiveMatch:
		return Bold + "\033[30;43m"
	case StyleStatus:
		return Reverse
	}
	if s >= stylePalette {
		return Bold + paletteColors[int(s-stylePalette)%len(paletteColors)]
	}
	return ""
}

// Render wraps text in the escape sequences for s.
func (s Style) Render(text string) string {
	p := s.prefix()
	if p == "" {
		return text
	}
	return p + text + Reset
}
