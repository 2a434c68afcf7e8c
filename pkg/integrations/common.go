package integrations

import (
	"net/http"
	"time"

	"github.com/matzehuels/repometa/pkg/errors"
)

// DefaultTimeout bounds every request made through [NewHTTPClient].
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the remote resource doesn't exist.
	// It carries [errors.ErrCodeNotFound].
	ErrNotFound = errors.New(errors.ErrCodeNotFound, "resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// other non-200 responses). It carries [errors.ErrCodeNetwork].
	ErrNetwork = errors.New(errors.ErrCodeNetwork, "network error")
)

// NewHTTPClient creates an HTTP client with the given timeout.
// A non-positive timeout selects [DefaultTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
