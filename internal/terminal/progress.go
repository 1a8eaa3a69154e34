package terminal

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner repaints one status line while a slow query runs.
// It must be stopped before any widget takes over the terminal.
type Spinner struct {
	w        io.Writer
	mu       sync.Mutex
	message  string
	started  atomic.Bool
	stopping atomic.Bool
	wg       sync.WaitGroup
}

// NewSpinner creates a spinner that draws on w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{w: w, message: message}
}

// Start begins the animation. Calling it again has no effect.
func (s *Spinner) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go s.loop()
}

func (s *Spinner) loop() {
	defer s.wg.Done()
	for i := 0; !s.stopping.Load(); i++ {
		s.mu.Lock()
		msg := s.message
		s.mu.Unlock()

		frame := spinnerFrames[i%len(spinnerFrames)]
		fmt.Fprintf(s.w, "\r%s%s %s%s", Cyan, frame, msg, Reset)
		time.Sleep(spinnerInterval)
	}
}

// Update changes the spinner message.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Stop waits for the animation goroutine to exit and clears the line.
func (s *Spinner) Stop() {
	if !s.started.Load() || !s.stopping.CompareAndSwap(false, true) {
		return
	}
	s.wg.Wait()
	fmt.Fprint(s.w, "\r"+csiClearLine)
}
