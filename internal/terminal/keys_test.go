package terminal

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedBytes feeds the decoder from memory. Bytes already buffered count
// as pending, like a real escape sequence arriving in one read.
type scriptedBytes struct {
	*bytes.Reader
}

func (s scriptedBytes) pending() bool { return s.Len() > 0 }

func decodeAll(t *testing.T, in string) []Key {
	t.Helper()
	src := scriptedBytes{bytes.NewReader([]byte(in))}
	var keys []Key
	for {
		k, err := decodeKey(src)
		if err == io.EOF {
			return keys
		}
		require.NoError(t, err)
		keys = append(keys, k)
	}
}

func TestDecodeKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Key
	}{
		{"up", "\x1b[A", Key{Code: KeyUp}},
		{"down", "\x1b[B", Key{Code: KeyDown}},
		{"ss3 up", "\x1bOA", Key{Code: KeyUp}},
		{"home csi", "\x1b[H", Key{Code: KeyHome}},
		{"home tilde", "\x1b[1~", Key{Code: KeyHome}},
		{"home ss3", "\x1bOH", Key{Code: KeyHome}},
		{"end tilde", "\x1b[4~", Key{Code: KeyEnd}},
		{"end rxvt", "\x1b[8~", Key{Code: KeyEnd}},
		{"page up", "\x1b[5~", Key{Code: KeyPageUp}},
		{"page down", "\x1b[6~", Key{Code: KeyPageDown}},
		{"delete", "\x1b[3~", Key{Code: KeyDelete}},
		{"backtab", "\x1b[Z", Key{Code: KeyBacktab}},
		{"bare escape", "\x1b", Key{Code: KeyEscape}},
		{"enter cr", "\r", Key{Code: KeyEnter}},
		{"tab", "\t", Key{Code: KeyTab}},
		{"backspace", "\x7f", Key{Code: KeyBackspace}},
		{"ctrl-h", "\x08", Key{Code: KeyBackspace}},
		{"ctrl-c", "\x03", Key{Code: KeyCtrlC}},
		{"rune", "q", Key{Code: KeyRune, Rune: 'q'}},
		{"utf8 rune", "\u00e9", Key{Code: KeyRune, Rune: '\u00e9'}},
		{"unknown csi", "\x1b[15~", Key{Code: KeyUnknown}},
		{"other control", "\x01", Key{Code: KeyUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := decodeAll(t, tt.in)
			require.Len(t, keys, 1)
			assert.Equal(t, tt.want, keys[0])
		})
	}
}

func TestDecodeKeySequence(t *testing.T) {
	keys := decodeAll(t, "j\x1b[Bk ")

	assert.Equal(t, []Key{
		{Code: KeyRune, Rune: 'j'},
		{Code: KeyDown},
		{Code: KeyRune, Rune: 'k'},
		{Code: KeyRune, Rune: ' '},
	}, keys)
}

func TestKeyIs(t *testing.T) {
	assert.True(t, Key{Code: KeyRune, Rune: 'q'}.Is('q'))
	assert.False(t, Key{Code: KeyEscape}.Is('q'))
}
