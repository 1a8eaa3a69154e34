// Package terminal draws interactive widgets in place inside the user's
// shell: a grouped multi-select list and a searchable pager, both redrawn at
// a fixed anchor without switching to the alternate screen.
//
// Every widget runs inside a Session, which owns raw mode and cursor
// visibility and restores both on every exit path:
//
//	err := terminal.Interact(tty, func(s *terminal.Session) error {
//		sel, ok, err := list.Run(s)
//		...
//	})
package terminal

import (
	"errors"
	"fmt"
)

// Position is a zero-based terminal cell coordinate.
type Position struct {
	Col int
	Row int
}

// Terminal is the set of terminal capabilities the widgets rely on.
// TTY implements it for a real terminal.
type Terminal interface {
	// ReadKey blocks until the next key event.
	ReadKey() (Key, error)
	// Size returns the terminal width and height in cells.
	Size() (width, height int, err error)
	CursorPosition() (Position, error)
	SetCursorPosition(p Position) error
	// ClearDown clears from the cursor to the end of the screen.
	ClearDown() error
	ClearLine() error
	// Print writes text at the cursor. Line breaks are "\r\n".
	Print(s string) error
	EnableRaw() error
	DisableRaw() error
	ShowCursor() error
	HideCursor() error
}

var (
	// ErrTerminalIO is the sentinel wrapped by every IOError.
	ErrTerminalIO = errors.New("terminal I/O")

	// ErrNoItems is returned when a list is built from an empty collection.
	ErrNoItems = errors.New("no items to select from")

	// ErrSessionActive is returned when a second raw session is requested
	// while one is still held.
	ErrSessionActive = errors.New("a terminal session is already active")
)

// IOError reports a failed terminal query or write.
// It wraps ErrTerminalIO and the underlying cause.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
}

// Unwrap returns both ErrTerminalIO and the cause for errors.Is().
func (e *IOError) Unwrap() []error { return []error{ErrTerminalIO, e.Err} }

func ioErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ie *IOError
	if errors.As(err, &ie) {
		return err
	}
	return &IOError{Op: op, Err: err}
}
