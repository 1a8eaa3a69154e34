package terminal

import "strings"

// Frame redraws a block of lines in place at a fixed anchor on the main
// screen, so output printed before and after it stays visible.
type Frame struct {
	term      Terminal
	anchor    Position
	placed    bool
	corrected bool
}

// NewFrame returns a frame that anchors itself on its first Draw.
func NewFrame(t Terminal) *Frame {
	return &Frame{term: t}
}

// Anchor returns the row and column where the block starts.
func (f *Frame) Anchor() Position { return f.anchor }

// Draw replaces the block with lines. Each line is cut to the terminal
// width and followed by CRLF.
func (f *Frame) Draw(lines []string) error {
	width, rows, err := f.term.Size()
	if err != nil {
		return ioErr("size", err)
	}
	n := len(lines)

	if !f.placed {
		if err := f.place(n, rows); err != nil {
			return err
		}
		f.placed = true
	} else if f.anchor.Row+n+1 > rows {
		// The terminal shrank under us.
		f.anchor.Row = max(0, rows-n-1)
	}

	if err := f.term.SetCursorPosition(f.anchor); err != nil {
		return ioErr("move cursor", err)
	}
	if err := f.term.ClearDown(); err != nil {
		return ioErr("clear", err)
	}
	for _, line := range lines {
		if err := f.term.Print(Truncate(line, width) + "\r\n"); err != nil {
			return ioErr("write", err)
		}
	}

	if f.corrected {
		return nil
	}
	f.corrected = true
	end, err := f.term.CursorPosition()
	if err != nil {
		return ioErr("cursor position", err)
	}
	// The terminal scrolled while printing the first frame.
	if end.Row != f.anchor.Row+n {
		f.anchor.Row = max(0, end.Row-n)
	}
	return nil
}

// place makes room for a block of n lines plus the resting cursor row.
func (f *Frame) place(n, rows int) error {
	pos, err := f.term.CursorPosition()
	if err != nil {
		return ioErr("cursor position", err)
	}
	need := n + 1
	row := pos.Row
	if pos.Col > 0 {
		// Keep whatever is already on the cursor's line.
		row++
	}
	if rows-row >= need {
		f.anchor = Position{Row: row}
		return nil
	}

	if err := f.term.Print(strings.Repeat("\r\n", need)); err != nil {
		return ioErr("write", err)
	}
	f.anchor = Position{Row: max(0, rows-need)}
	if err := f.term.SetCursorPosition(f.anchor); err != nil {
		return ioErr("move cursor", err)
	}
	if err := f.term.ClearDown(); err != nil {
		return ioErr("clear", err)
	}
	return nil
}

// Clear erases the block and leaves the cursor at the anchor.
func (f *Frame) Clear() error {
	if !f.placed {
		return nil
	}
	if err := f.term.SetCursorPosition(f.anchor); err != nil {
		return ioErr("move cursor", err)
	}
	return ioErr("clear", f.term.ClearDown())
}
