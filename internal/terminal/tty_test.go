package terminal

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeTTY returns a TTY reading from a pipe fed by the returned writer.
// Output goes to a second pipe whose read end is returned.
func pipeTTY(t *testing.T) (*TTY, *os.File, *os.File) {
	t.Helper()
	inR, inW, err := os.Pipe()
	require.NoError(t, err)
	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		inR.Close()
		inW.Close()
		outR.Close()
		outW.Close()
	})
	return newTTY(inR, outW, false), inW, outR
}

func TestCursorPositionKeepsEarlierKeys(t *testing.T) {
	tty, in, out := pipeTTY(t)
	_, err := io.WriteString(in, "j\x1b[5;10R")
	require.NoError(t, err)

	pos, err := tty.CursorPosition()
	require.NoError(t, err)
	assert.Equal(t, Position{Col: 9, Row: 4}, pos)

	query := make([]byte, len(csiReportPos))
	_, err = io.ReadFull(out, query)
	require.NoError(t, err)
	assert.Equal(t, csiReportPos, string(query))

	k, err := tty.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, Key{Code: KeyRune, Rune: 'j'}, k)
}

func TestCursorPositionSkipsStrayR(t *testing.T) {
	tty, in, _ := pipeTTY(t)
	_, err := io.WriteString(in, "R\x1b[2;3R")
	require.NoError(t, err)

	pos, err := tty.CursorPosition()
	require.NoError(t, err)
	assert.Equal(t, Position{Col: 2, Row: 1}, pos)
	assert.Equal(t, []byte("R"), tty.ahead)
}

func TestCursorPositionGivesUpWithoutReply(t *testing.T) {
	tty, in, _ := pipeTTY(t)
	_, err := io.WriteString(in, strings.Repeat("x", maxReplyBytes+44))
	require.NoError(t, err)

	_, err = tty.CursorPosition()
	assert.ErrorIs(t, err, ErrTerminalIO)
	assert.Len(t, tty.ahead, maxReplyBytes)

	k, err := tty.ReadKey()
	require.NoError(t, err)
	assert.Equal(t, Key{Code: KeyRune, Rune: 'x'}, k)
}
