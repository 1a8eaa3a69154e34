package terminal

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// LineReader is implemented by terminals that can read a cooked line.
type LineReader interface {
	ReadLine() (string, error)
}

// ReadLine prints prompt and reads one line of text. Raw mode is suspended
// while the line is read and restored afterwards.
func (s *Session) ReadLine(prompt string) (line string, err error) {
	if err := s.term.Print(prompt); err != nil {
		return "", ioErr("write", err)
	}

	lr, ok := s.term.(LineReader)
	if !ok {
		return s.echoLine()
	}

	if err := s.Suspend(); err != nil {
		return "", err
	}
	defer func() {
		if rerr := s.Resume(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	line, err = lr.ReadLine()
	if err != nil {
		return "", ioErr("read line", err)
	}
	return strings.TrimSpace(line), nil
}

// echoLine collects a line key by key for terminals without cooked input.
func (s *Session) echoLine() (string, error) {
	var buf []rune
	for {
		key, err := s.term.ReadKey()
		if err != nil {
			return "", ioErr("read key", err)
		}
		switch key.Code {
		case KeyEnter:
			return strings.TrimSpace(string(buf)), ioErr("write", s.term.Print("\r\n"))
		case KeyEscape, KeyCtrlC:
			return "", ioErr("write", s.term.Print("\r\n"))
		case KeyBackspace:
			if len(buf) > 0 {
				if err := s.term.Print(eraseRune(buf[len(buf)-1])); err != nil {
					return "", ioErr("write", err)
				}
				buf = buf[:len(buf)-1]
			}
		case KeyRune:
			buf = append(buf, key.Rune)
			if err := s.term.Print(string(key.Rune)); err != nil {
				return "", ioErr("write", err)
			}
		}
	}
}

// eraseRune blanks the cells of an echoed rune and steps back over them.
func eraseRune(r rune) string {
	w := max(1, runewidth.RuneWidth(r))
	back := strings.Repeat("\b", w)
	return back + strings.Repeat(" ", w) + back
}

// Confirm asks a yes/no question. Only "y" and "yes" count as yes.
func (s *Session) Confirm(question string) (bool, error) {
	answer, err := s.ReadLine(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// PressAnyKey shows message and waits for a single key.
func (s *Session) PressAnyKey(message string) error {
	if err := s.term.Print(message); err != nil {
		return ioErr("write", err)
	}
	if _, err := s.term.ReadKey(); err != nil {
		return ioErr("read key", err)
	}
	return ioErr("write", s.term.Print("\r\n"))
}
