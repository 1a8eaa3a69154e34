package terminal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	ft := newFakeTerm(80, 24)

	s, err := Acquire(ft, WithHiddenCursor())
	require.NoError(t, err)
	assert.True(t, ft.raw)
	assert.True(t, ft.cursorHidden)

	require.NoError(t, s.Release())
	assert.False(t, ft.raw)
	assert.False(t, ft.cursorHidden)

	// A second release is a no-op.
	ft.raw = true
	require.NoError(t, s.Release())
	assert.True(t, ft.raw)
}

func TestAcquireRejectsNestedSession(t *testing.T) {
	s, err := Acquire(newFakeTerm(80, 24))
	require.NoError(t, err)
	defer s.Release()

	_, err = Acquire(newFakeTerm(80, 24))
	assert.ErrorIs(t, err, ErrSessionActive)
}

func TestSuspendResume(t *testing.T) {
	ft := newFakeTerm(80, 24)
	s, err := Acquire(ft, WithHiddenCursor())
	require.NoError(t, err)
	defer s.Release()

	require.NoError(t, s.Suspend())
	assert.False(t, ft.raw)
	assert.False(t, ft.cursorHidden)

	require.NoError(t, s.Resume())
	assert.True(t, ft.raw)
	assert.True(t, ft.cursorHidden)
}

func TestInteractRestoresOnEveryPath(t *testing.T) {
	errBoom := errors.New("boom")
	tests := []struct {
		name    string
		fn      func(*Session) error
		wantErr error
	}{
		{"success", func(*Session) error { return nil }, nil},
		{"error", func(*Session) error { return errBoom }, errBoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := newFakeTerm(80, 24)
			err := Interact(ft, func(s *Session) error {
				assert.True(t, ft.raw)
				assert.True(t, ft.cursorHidden)
				return tt.fn(s)
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.False(t, ft.raw)
			assert.False(t, ft.cursorHidden)
		})
	}
}

func TestInteractRestoresOnPanic(t *testing.T) {
	ft := newFakeTerm(80, 24)

	assert.Panics(t, func() {
		_ = Interact(ft, func(*Session) error { panic("widget bug") })
	})
	assert.False(t, ft.raw)
	assert.False(t, ft.cursorHidden)

	// The session slot is free again.
	s, err := Acquire(ft)
	require.NoError(t, err)
	require.NoError(t, s.Release())
}

func TestWriteFailureMidFrameStillLeavesRawMode(t *testing.T) {
	ft := newFakeTerm(80, 24).withKeys(press(KeyDown))
	ft.failPrintAt = 3
	l, err := NewList(testGroups(), ListOptions{Mode: MultiSelect})
	require.NoError(t, err)

	err = Interact(ft, func(s *Session) error {
		_, _, err := l.Run(s)
		return err
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTerminalIO)
	assert.ErrorIs(t, err, errWriteFailed)
	var ioe *IOError
	require.ErrorAs(t, err, &ioe)
	assert.Equal(t, "write", ioe.Op)
	assert.False(t, ft.raw)
	assert.False(t, ft.cursorHidden)
}
