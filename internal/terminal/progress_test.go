package terminal

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerStopsBeforeReturning(t *testing.T) {
	var out syncBuffer
	sp := NewSpinner(&out, "Fetching opened files")
	sp.Start()
	sp.Start()
	time.Sleep(3 * spinnerInterval)
	sp.Stop()

	got := out.String()
	assert.Contains(t, got, "Fetching opened files")
	assert.True(t, strings.HasSuffix(got, "\r"+csiClearLine))

	// Nothing is painted once Stop has returned.
	time.Sleep(2 * spinnerInterval)
	assert.Equal(t, got, out.String())
}

func TestSpinnerUpdate(t *testing.T) {
	var out syncBuffer
	sp := NewSpinner(&out, "one")
	sp.Start()
	sp.Update("two")
	time.Sleep(2 * spinnerInterval)
	sp.Stop()

	got := out.String()
	assert.Contains(t, got, "two")
	assert.True(t, strings.HasSuffix(got, "\r"+csiClearLine))
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var out syncBuffer
	NewSpinner(&out, "idle").Stop()
	assert.Empty(t, out.String())
}
