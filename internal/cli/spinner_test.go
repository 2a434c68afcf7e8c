package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer lets the test read what the animation goroutine wrote.
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

func TestSpinnerShowsProgress(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Scanning 2 repositories...")
	s.Start()
	s.SetMessage("Scanning repositories 1/2...")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Scanning repositories 1/2...") {
		t.Errorf("output missing progress message: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("line not cleared after Stop: %q", got)
	}
}

func TestSpinnerWidthTracksWidestMessage(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Scanning...")
	s.SetMessage("Scanning repositories 10/200...")
	s.SetMessage("done")

	if want := len("Scanning repositories 10/200..."); s.width != want {
		t.Errorf("width = %d, want %d", s.width, want)
	}
}

func TestSpinnerExitsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerTo(ctx, &syncBuffer{}, "Listing OWASP repositories...")
	s.Start()
	cancel()

	select {
	case <-s.exited:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after cancel")
	}
	s.Stop()
}

func TestSpinnerStopTwice(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Scanning...")
	s.Start()
	s.Stop()
	s.Stop()
}
