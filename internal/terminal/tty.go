package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const (
	csiClearDown  = "\033[J"
	csiClearLine  = "\033[2K"
	csiHideCursor = "\033[?25l"
	csiShowCursor = "\033[?25h"
	csiReportPos  = "\033[6n"
)

// escTimeout is how long a lone ESC byte waits for the rest of a sequence.
const escTimeout = 25

// maxReplyBytes bounds the scan for a cursor position reply.
const maxReplyBytes = 256

var cursorReplyRE = regexp.MustCompile(`\x1b\[(\d+);(\d+)R$`)

// TTY is a Terminal backed by a real terminal device.
type TTY struct {
	in       *os.File
	out      *os.File
	inFd     int
	outFd    int
	reader   *bufio.Reader
	ahead    []byte
	oldState *term.State
	ownsIn   bool
}

// OpenTTY opens /dev/tty so widgets still work when stdout is piped.
// It falls back to stdin/stdout when /dev/tty is unavailable.
func OpenTTY() (*TTY, error) {
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err == nil {
		return newTTY(f, f, true), nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("no terminal available: %w", err)
	}
	return newTTY(os.Stdin, os.Stdout, false), nil
}

func newTTY(in, out *os.File, ownsIn bool) *TTY {
	return &TTY{
		in:     in,
		out:    out,
		inFd:   int(in.Fd()),
		outFd:  int(out.Fd()),
		reader: bufio.NewReader(in),
		ownsIn: ownsIn,
	}
}

// Close releases /dev/tty. It does not touch terminal modes.
func (t *TTY) Close() error {
	if t.ownsIn {
		return t.in.Close()
	}
	return nil
}

// ReadKey blocks until a key is pressed.
func (t *TTY) ReadKey() (Key, error) {
	k, err := decodeKey(t)
	if err != nil {
		return Key{}, ioErr("read key", err)
	}
	return k, nil
}

// ReadByte implements io.ByteReader for the key decoder.
func (t *TTY) ReadByte() (byte, error) {
	if len(t.ahead) > 0 {
		b := t.ahead[0]
		t.ahead = t.ahead[1:]
		return b, nil
	}
	return t.reader.ReadByte()
}

func (t *TTY) pending() bool {
	if len(t.ahead) > 0 || t.reader.Buffered() > 0 {
		return true
	}
	fds := []unix.PollFd{{Fd: int32(t.inFd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, escTimeout)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return err == nil && n > 0
	}
}

// Size returns the current terminal dimensions.
func (t *TTY) Size() (int, int, error) {
	w, h, err := term.GetSize(t.outFd)
	if err != nil {
		w, h, err = term.GetSize(t.inFd)
	}
	if err != nil {
		return 0, 0, ioErr("size", err)
	}
	return w, h, nil
}

// CursorPosition asks the terminal where the cursor is. Raw mode must be on.
// Keys typed before the reply arrives are kept for ReadKey.
func (t *TTY) CursorPosition() (Position, error) {
	if err := t.Print(csiReportPos); err != nil {
		return Position{}, ioErr("cursor position", err)
	}

	var scan []byte
	for len(scan) < maxReplyBytes {
		b, err := t.reader.ReadByte()
		if err != nil {
			return Position{}, ioErr("cursor position", err)
		}
		scan = append(scan, b)
		if b != 'R' {
			continue
		}
		loc := cursorReplyRE.FindSubmatchIndex(scan)
		if loc == nil {
			continue
		}
		row, _ := strconv.Atoi(string(scan[loc[2]:loc[3]]))
		col, _ := strconv.Atoi(string(scan[loc[4]:loc[5]]))
		t.ahead = append(t.ahead, scan[:loc[0]]...)
		return Position{Col: col - 1, Row: row - 1}, nil
	}
	t.ahead = append(t.ahead, scan...)
	return Position{}, ioErr("cursor position", errors.New("no reply from terminal"))
}

func (t *TTY) SetCursorPosition(p Position) error {
	return t.Print(fmt.Sprintf("\033[%d;%dH", p.Row+1, p.Col+1))
}

func (t *TTY) ClearDown() error { return t.Print(csiClearDown) }

func (t *TTY) ClearLine() error { return t.Print("\r" + csiClearLine) }

func (t *TTY) Print(s string) error {
	if _, err := t.out.WriteString(s); err != nil {
		return ioErr("write", err)
	}
	return nil
}

// EnableRaw switches input to raw mode. Calling it twice is a no-op.
func (t *TTY) EnableRaw() error {
	if t.oldState != nil {
		return nil
	}
	st, err := term.MakeRaw(t.inFd)
	if err != nil {
		return ioErr("enable raw mode", err)
	}
	t.oldState = st
	return nil
}

// DisableRaw restores the mode saved by EnableRaw.
func (t *TTY) DisableRaw() error {
	if t.oldState == nil {
		return nil
	}
	err := term.Restore(t.inFd, t.oldState)
	t.oldState = nil
	return ioErr("restore mode", err)
}

func (t *TTY) ShowCursor() error { return t.Print(csiShowCursor) }

func (t *TTY) HideCursor() error { return t.Print(csiHideCursor) }

// ReadLine reads one line in cooked mode. Raw mode must be off.
func (t *TTY) ReadLine() (string, error) {
	var line []byte
	for {
		b, err := t.ReadByte()
		if err != nil {
			if len(line) > 0 {
				return string(line), nil
			}
			return "", ioErr("read line", err)
		}
		if b == '\n' {
			break
		}
		line = append(line, b)
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return string(line), nil
}

// ReadPassword reads a line without echo.
func (t *TTY) ReadPassword() (string, error) {
	b, err := term.ReadPassword(t.inFd)
	if err != nil {
		return "", ioErr("read password", err)
	}
	return string(b), nil
}
