package scan

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/repometa/pkg/model"
)

// DefaultWorkers bounds the number of concurrent scans.
const DefaultWorkers = 20

// RepoScanner is the per-repository step run by a [Runner].
type RepoScanner interface {
	Scan(ctx context.Context, ref model.RepositoryRef) *model.Record
}

// ProgressFunc is called after each completed scan with the number of
// finished scans so far. It runs on worker goroutines and must be safe for
// concurrent use.
type ProgressFunc func(done, total int, rec *model.Record)

// Runner scans many repositories concurrently.
type Runner struct {
	scanner  RepoScanner
	workers  int
	progress ProgressFunc
}

// RunnerOption configures a [Runner].
type RunnerOption func(*Runner)

// WithWorkers sets the worker pool size. Non-positive values are ignored.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithProgress sets a completion callback.
func WithProgress(fn ProgressFunc) RunnerOption {
	return func(r *Runner) { r.progress = fn }
}

// NewRunner creates a Runner around s.
func NewRunner(s RepoScanner, opts ...RunnerOption) *Runner {
	r := &Runner{scanner: s, workers: DefaultWorkers}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run scans every ref and returns one record per ref, at the ref's index.
// It returns only after all scans have finished.
func (r *Runner) Run(ctx context.Context, refs []model.RepositoryRef) []*model.Record {
	records := make([]*model.Record, len(refs))
	var done atomic.Int64

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, ref := range refs {
		g.Go(func() error {
			rec := r.scanner.Scan(ctx, ref)
			if rec == nil {
				rec = model.NewRecord(ref)
			}
			records[i] = rec
			if r.progress != nil {
				r.progress(int(done.Add(1)), len(refs), rec)
			}
			return nil
		})
	}
	_ = g.Wait()
	return records
}
