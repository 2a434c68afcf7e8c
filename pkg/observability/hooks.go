// Package observability provides hooks for scan metrics and tracing.
//
// The scanner reports cache and fetch events to a [ScanHooks] value that is
// passed in at construction. Nothing is registered globally: the CLI builds
// one [Counters] per run and reads it back for the end-of-run stats line,
// while library users and tests get [NoopScanHooks] by default.
//
// # Usage
//
//	counters := &observability.Counters{}
//	scanner := scan.NewScanner(fetcher, store, scan.WithHooks(counters))
//	// ... run scans ...
//	fmt.Println(counters.Snapshot())
package observability

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// ScanHooks receives events from repository scans. Implementations must be
// safe for concurrent use; scans run on many goroutines at once.
type ScanHooks interface {
	// OnCacheHit records a scan served from the cache.
	OnCacheHit(ctx context.Context, repo string)

	// OnCacheMiss records a scan that had to fetch documents.
	OnCacheMiss(ctx context.Context, repo string)

	// OnFetch records one document fetch and whether it succeeded.
	OnFetch(ctx context.Context, repo, file string, ok bool)

	// OnScanComplete records a finished scan.
	OnScanComplete(ctx context.Context, repo string, duration time.Duration)
}

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnCacheHit(context.Context, string)                    {}
func (NoopScanHooks) OnCacheMiss(context.Context, string)                   {}
func (NoopScanHooks) OnFetch(context.Context, string, string, bool)         {}
func (NoopScanHooks) OnScanComplete(context.Context, string, time.Duration) {}

// Counters tallies scan events with atomic counters.
type Counters struct {
	scans         atomic.Int64
	hits          atomic.Int64
	misses        atomic.Int64
	fetched       atomic.Int64
	fetchFailures atomic.Int64
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.hits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.misses.Add(1) }

func (c *Counters) OnFetch(_ context.Context, _, _ string, ok bool) {
	if ok {
		c.fetched.Add(1)
	} else {
		c.fetchFailures.Add(1)
	}
}

func (c *Counters) OnScanComplete(context.Context, string, time.Duration) { c.scans.Add(1) }

// Stats is a point-in-time copy of [Counters].
type Stats struct {
	Scans         int64
	CacheHits     int64
	CacheMisses   int64
	Fetched       int64
	FetchFailures int64
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Stats {
	return Stats{
		Scans:         c.scans.Load(),
		CacheHits:     c.hits.Load(),
		CacheMisses:   c.misses.Load(),
		Fetched:       c.fetched.Load(),
		FetchFailures: c.fetchFailures.Load(),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d scanned, %d cached, %d fetched, %d documents (%d missing)",
		s.Scans, s.CacheHits, s.CacheMisses, s.Fetched, s.FetchFailures)
}

var (
	_ ScanHooks = NoopScanHooks{}
	_ ScanHooks = (*Counters)(nil)
)
