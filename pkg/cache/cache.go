// Package cache persists scan records between runs.
//
// Every repository gets one entry keyed by [Key] ("owner__name") holding the
// record and the UTC time it was written. Entries older than the store's TTL
// are treated as absent when read; nothing is evicted in the background and
// a stale entry is simply overwritten by the next successful scan.
//
// Four backends implement [Store]:
//
//   - [FileStore]: one JSON file per repository in a local directory
//   - [RedisStore]: the same entries in Redis, for caches shared between hosts
//   - [MemoryStore]: a bounded in-process LRU, nothing persisted
//   - [NullStore]: never hits, used for --no-cache
//
// A corrupt or partially written entry is a cache miss, never an error.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/repometa/pkg/model"
)

// DefaultTTL is how long a cached record stays fresh.
const DefaultTTL = 24 * time.Hour

// Store reads and writes cached scan records.
type Store interface {
	// Get returns the cached record for owner/name. The bool is false when
	// no fresh entry exists. Errors are reserved for invalid keys and
	// backend failures other than "not found".
	Get(ctx context.Context, owner, name string) (*model.Record, bool, error)

	// Put stores rec for owner/name with a fresh timestamp, replacing any
	// previous entry.
	Put(ctx context.Context, owner, name string, rec *model.Record) error

	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// Clock returns the current time. Stores use it for timestamps and TTL checks.
type Clock func() time.Time

// Option configures a store.
type Option func(*options)

type options struct {
	ttl   time.Duration
	clock Clock
}

// WithTTL overrides [DefaultTTL]. A non-positive TTL is ignored.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{ttl: DefaultTTL, clock: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
