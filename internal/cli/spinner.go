package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a single status line on stderr while listing or
// scanning runs. It stops on its own when ctx is cancelled.
type spinner struct {
	out io.Writer
	ctx context.Context

	mu      sync.Mutex
	message string
	width   int // widest message shown, for clearing the line

	stop     chan struct{}
	stopOnce sync.Once
	exited   chan struct{}
}

func newSpinner(ctx context.Context, message string) *spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *spinner {
	return &spinner{
		out:     w,
		ctx:     ctx,
		message: message,
		width:   len(message),
		stop:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

func (s *spinner) Start() {
	go s.run()
}

func (s *spinner) run() {
	defer close(s.exited)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

// SetMessage replaces the status text; the runner's progress callback
// calls it from worker goroutines.
func (s *spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	s.width = max(s.width, len(message))
}

// Stop waits for the animation to exit and clears the line. Stopping
// twice is fine; stopping before Start is not.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.exited
	s.clear()
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width+4))
}
