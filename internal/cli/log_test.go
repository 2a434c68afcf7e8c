package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		emit    func(*log.Logger)
		wantLog bool
	}{
		{"scan summary at info", log.InfoLevel, func(l *log.Logger) { l.Info("Scanned repositories", "count", 3) }, true},
		{"missing document hidden at info", log.InfoLevel, func(l *log.Logger) { l.Debug("document not on branch", "path", "index.md") }, false},
		{"missing document shown with --verbose", log.DebugLevel, func(l *log.Logger) { l.Debug("document not on branch", "path", "index.md") }, true},
		{"fetch failure at warn", log.WarnLevel, func(l *log.Logger) { l.Warn("fetch failed", "status", 502) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.wantLog, buf.String())
			}
		})
	}
}

func TestNewLoggerRunField(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel).With("run", "7f3c")

	logger.Info("Listed repositories", "org", "OWASP")

	out := buf.String()
	for _, want := range []string{"Listed repositories", "run=7f3c", "org=OWASP"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))

	time.Sleep(5 * time.Millisecond)
	prog.done("Listed repositories", "org", "OWASP", "count", 312)

	out := buf.String()
	for _, want := range []string{"Listed repositories", "org=OWASP", "count=312", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output missing %q: %s", want, out)
		}
	}
}
