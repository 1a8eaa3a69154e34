package terminal

import (
	"errors"
	"sync/atomic"
)

// active guards against nested sessions. Only one widget owns the terminal.
var active atomic.Bool

// Session holds raw mode, and optionally a hidden cursor, on a Terminal.
type Session struct {
	term         Terminal
	hideCursor   bool
	cursorHidden bool
	raw          bool
	released     bool
}

// SessionOption configures Acquire.
type SessionOption func(*Session)

// WithHiddenCursor hides the cursor for the life of the session.
func WithHiddenCursor() SessionOption {
	return func(s *Session) { s.hideCursor = true }
}

// Acquire enables raw input on t. The caller must Release the session.
func Acquire(t Terminal, opts ...SessionOption) (*Session, error) {
	if !active.CompareAndSwap(false, true) {
		return nil, ErrSessionActive
	}
	s := &Session{term: t}
	for _, opt := range opts {
		opt(s)
	}
	if err := t.EnableRaw(); err != nil {
		active.Store(false)
		return nil, ioErr("enable raw mode", err)
	}
	s.raw = true
	if s.hideCursor {
		if err := t.HideCursor(); err != nil {
			return nil, errors.Join(ioErr("hide cursor", err), s.Release())
		}
		s.cursorHidden = true
	}
	return s, nil
}

// Terminal returns the terminal the session runs on.
func (s *Session) Terminal() Terminal { return s.term }

// Release shows the cursor and leaves raw mode. It is safe to call twice.
func (s *Session) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	defer active.Store(false)
	return s.restore()
}

// Suspend leaves raw mode and shows the cursor for plain line input.
func (s *Session) Suspend() error {
	if s.released {
		return nil
	}
	return s.restore()
}

func (s *Session) restore() error {
	var errs []error
	if s.cursorHidden {
		if err := s.term.ShowCursor(); err != nil {
			errs = append(errs, ioErr("show cursor", err))
		}
		s.cursorHidden = false
	}
	if s.raw {
		if err := s.term.DisableRaw(); err != nil {
			errs = append(errs, ioErr("disable raw mode", err))
		}
		s.raw = false
	}
	return errors.Join(errs...)
}

// Resume undoes Suspend.
func (s *Session) Resume() error {
	if s.released {
		return nil
	}
	if !s.raw {
		if err := s.term.EnableRaw(); err != nil {
			return ioErr("enable raw mode", err)
		}
		s.raw = true
	}
	if s.hideCursor && !s.cursorHidden {
		if err := s.term.HideCursor(); err != nil {
			return ioErr("hide cursor", err)
		}
		s.cursorHidden = true
	}
	return nil
}

// Interact runs fn inside a session with a hidden cursor. The terminal is
// restored before Interact returns, whether fn returns, fails or panics.
func Interact(t Terminal, fn func(*Session) error) (err error) {
	s, err := Acquire(t, WithHiddenCursor())
	if err != nil {
		return err
	}
	defer func() {
		r := recover()
		if rerr := s.Release(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		if r != nil {
			panic(r)
		}
	}()
	return fn(s)
}
