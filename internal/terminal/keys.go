package terminal

import (
	"io"
	"unicode/utf8"
)

// KeyCode identifies a decoded key.
type KeyCode uint8

const (
	KeyUnknown KeyCode = iota
	KeyRune            // printable character, see Key.Rune
	KeyEnter
	KeyEscape
	KeyTab
	KeyBacktab // Shift+Tab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyCtrlC
)

// Key is a single decoded keyboard event.
type Key struct {
	Code KeyCode
	Rune rune
}

// Is reports whether k is the printable rune r.
func (k Key) Is(r rune) bool {
	return k.Code == KeyRune && k.Rune == r
}

// byteSource feeds the key decoder. pending reports whether another byte
// arrives soon enough to belong to the same escape sequence.
type byteSource interface {
	io.ByteReader
	pending() bool
}

// decodeKey reads one key event from src.
func decodeKey(src byteSource) (Key, error) {
	b, err := src.ReadByte()
	if err != nil {
		return Key{}, err
	}

	switch b {
	case 0x1b:
		if !src.pending() {
			return Key{Code: KeyEscape}, nil
		}
		return decodeEscape(src)
	case '\r', '\n':
		return Key{Code: KeyEnter}, nil
	case '\t':
		return Key{Code: KeyTab}, nil
	case 0x7f, 0x08:
		return Key{Code: KeyBackspace}, nil
	case 0x03:
		return Key{Code: KeyCtrlC}, nil
	}

	if b < 0x20 {
		return Key{Code: KeyUnknown}, nil
	}
	if b < utf8.RuneSelf {
		return Key{Code: KeyRune, Rune: rune(b)}, nil
	}

	buf := []byte{b}
	for !utf8.FullRune(buf) && len(buf) < utf8.UTFMax {
		next, err := src.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, next)
	}
	r, _ := utf8.DecodeRune(buf)
	if r == utf8.RuneError {
		return Key{Code: KeyUnknown}, nil
	}
	return Key{Code: KeyRune, Rune: r}, nil
}

func decodeEscape(src byteSource) (Key, error) {
	next, err := src.ReadByte()
	if err != nil {
		return Key{Code: KeyEscape}, nil
	}

	switch next {
	case '[':
		return decodeCSI(src)
	case 'O':
		final, err := src.ReadByte()
		if err != nil {
			return Key{Code: KeyEscape}, nil
		}
		switch final {
		case 'A':
			return Key{Code: KeyUp}, nil
		case 'B':
			return Key{Code: KeyDown}, nil
		case 'C':
			return Key{Code: KeyRight}, nil
		case 'D':
			return Key{Code: KeyLeft}, nil
		case 'H':
			return Key{Code: KeyHome}, nil
		case 'F':
			return Key{Code: KeyEnd}, nil
		}
		return Key{Code: KeyUnknown}, nil
	case 0x1b:
		return Key{Code: KeyEscape}, nil
	}
	// Alt+key chords are not bound.
	return Key{Code: KeyUnknown}, nil
}

func decodeCSI(src byteSource) (Key, error) {
	var params []byte
	var final byte
	for {
		b, err := src.ReadByte()
		if err != nil {
			return Key{Code: KeyEscape}, nil
		}
		if b >= 0x40 && b <= 0x7e {
			final = b
			break
		}
		params = append(params, b)
		if len(params) > 16 {
			return Key{Code: KeyUnknown}, nil
		}
	}

	switch final {
	case 'A':
		return Key{Code: KeyUp}, nil
	case 'B':
		return Key{Code: KeyDown}, nil
	case 'C':
		return Key{Code: KeyRight}, nil
	case 'D':
		return Key{Code: KeyLeft}, nil
	case 'H':
		return Key{Code: KeyHome}, nil
	case 'F':
		return Key{Code: KeyEnd}, nil
	case 'Z':
		return Key{Code: KeyBacktab}, nil
	case '~':
		switch string(params) {
		case "1", "7":
			return Key{Code: KeyHome}, nil
		case "4", "8":
			return Key{Code: KeyEnd}, nil
		case "3":
			return Key{Code: KeyDelete}, nil
		case "5":
			return Key{Code: KeyPageUp}, nil
		case "6":
			return Key{Code: KeyPageDown}, nil
		}
	}
	return Key{Code: KeyUnknown}, nil
}
