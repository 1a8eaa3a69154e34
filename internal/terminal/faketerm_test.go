package terminal

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

var errWriteFailed = errors.New("write failed")

// fakeTerm simulates a screen that scrolls when a line break is written on
// the bottom row.
type fakeTerm struct {
	width, height int
	// screenRows is the real screen height when it differs from what Size
	// reports.
	screenRows int

	row, col int
	scrolls  int
	buf      []string

	keys      []Key
	lines     []string
	linesRead int

	raw          bool
	cursorHidden bool
	rawWhileRead bool

	prints      int
	failPrintAt int
	posQueries  int
}

func newFakeTerm(width, height int) *fakeTerm {
	return &fakeTerm{width: width, height: height, buf: make([]string, height)}
}

func (f *fakeTerm) screen() int {
	if f.screenRows > 0 {
		return f.screenRows
	}
	return f.height
}

// withScreen makes Size report more rows than the screen really has.
func (f *fakeTerm) withScreen(rows int) *fakeTerm {
	f.screenRows = rows
	f.buf = make([]string, rows)
	return f
}

func (f *fakeTerm) withKeys(keys ...Key) *fakeTerm {
	f.keys = append(f.keys, keys...)
	return f
}

func (f *fakeTerm) ReadKey() (Key, error) {
	if len(f.keys) == 0 {
		return Key{}, io.EOF
	}
	k := f.keys[0]
	f.keys = f.keys[1:]
	return k, nil
}

func (f *fakeTerm) ReadLine() (string, error) {
	f.rawWhileRead = f.raw
	if f.linesRead >= len(f.lines) {
		return "", io.EOF
	}
	l := f.lines[f.linesRead]
	f.linesRead++
	return l, nil
}

func (f *fakeTerm) Size() (int, int, error) { return f.width, f.height, nil }

func (f *fakeTerm) CursorPosition() (Position, error) {
	f.posQueries++
	return Position{Col: f.col, Row: f.row}, nil
}

func (f *fakeTerm) SetCursorPosition(p Position) error {
	f.row = min(p.Row, f.screen()-1)
	f.col = p.Col
	return nil
}

func (f *fakeTerm) ClearDown() error {
	f.buf[f.row] = ""
	for i := f.row + 1; i < len(f.buf); i++ {
		f.buf[i] = ""
	}
	return nil
}

func (f *fakeTerm) ClearLine() error {
	f.buf[f.row] = ""
	f.col = 0
	return nil
}

func (f *fakeTerm) Print(s string) error {
	f.prints++
	if f.failPrintAt > 0 && f.prints == f.failPrintAt {
		return errWriteFailed
	}
	for i, seg := range strings.Split(s, "\r\n") {
		if i > 0 {
			f.newline()
		}
		f.buf[f.row] += seg
		f.col += VisualWidth(seg)
	}
	return nil
}

func (f *fakeTerm) newline() {
	f.col = 0
	if f.row == f.screen()-1 {
		f.scrolls++
		f.buf = append(f.buf[1:], "")
		return
	}
	f.row++
}

func (f *fakeTerm) EnableRaw() error { f.raw = true; return nil }

func (f *fakeTerm) DisableRaw() error { f.raw = false; return nil }

func (f *fakeTerm) ShowCursor() error { f.cursorHidden = false; return nil }

func (f *fakeTerm) HideCursor() error { f.cursorHidden = true; return nil }

// text returns row i without escape sequences.
func (f *fakeTerm) text(i int) string { return ansi.Strip(f.buf[i]) }

// screenText joins every non-empty row.
func (f *fakeTerm) screenText() string {
	var rows []string
	for i := range f.buf {
		if t := f.text(i); t != "" {
			rows = append(rows, t)
		}
	}
	return strings.Join(rows, "\n")
}

func runes(s string) []Key {
	keys := make([]Key, 0, len(s))
	for _, r := range s {
		keys = append(keys, Key{Code: KeyRune, Rune: r})
	}
	return keys
}

func press(code KeyCode) Key { return Key{Code: code} }

func repeat(k Key, n int) []Key {
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = k
	}
	return keys
}
