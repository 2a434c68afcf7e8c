package scan

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/repometa/pkg/cache"
	"github.com/matzehuels/repometa/pkg/model"
)

func makeRefs(n int) []model.RepositoryRef {
	refs := make([]model.RepositoryRef, n)
	for i := range refs {
		refs[i] = model.RepositoryRef{Owner: "OWASP", Name: fmt.Sprintf("repo-%03d", i), Archived: i%7 == 0}
	}
	return refs
}

func TestRunnerCompleteness(t *testing.T) {
	ctx := context.Background()
	refs := makeRefs(137)
	docs := map[string]string{}
	for i, ref := range refs {
		if i%3 == 0 {
			for k, v := range fullDocs(ref.Owner, ref.Name) {
				docs[k] = v
			}
		}
	}
	f := &fakeFetcher{docs: docs}
	r := NewRunner(NewScanner(f, cache.NewFileStore(t.TempDir())))

	records := r.Run(ctx, refs)
	if len(records) != len(refs) {
		t.Fatalf("got %d records, want %d", len(records), len(refs))
	}
	seen := map[string]bool{}
	for i, rec := range records {
		if rec == nil {
			t.Fatalf("record %d is nil", i)
		}
		if rec.Repo != refs[i].FullName() {
			t.Errorf("records[%d].Repo = %q, want %q", i, rec.Repo, refs[i].FullName())
		}
		if rec.Archived != refs[i].Archived {
			t.Errorf("records[%d].Archived = %v", i, rec.Archived)
		}
		if seen[rec.Repo] {
			t.Errorf("duplicate record %q", rec.Repo)
		}
		seen[rec.Repo] = true
	}
}

func TestRunnerSecondRunUsesCache(t *testing.T) {
	ctx := context.Background()
	refs := makeRefs(40)
	docs := map[string]string{}
	for _, ref := range refs {
		for k, v := range fullDocs(ref.Owner, ref.Name) {
			docs[k] = v
		}
	}
	f := &fakeFetcher{docs: docs}
	store := cache.NewFileStore(t.TempDir())

	NewRunner(NewScanner(f, store)).Run(ctx, refs)
	first := f.Calls()
	if first != 3*len(refs) {
		t.Fatalf("first run fetched %d, want %d", first, 3*len(refs))
	}

	for i := range refs {
		refs[i].Archived = !refs[i].Archived
	}
	records := NewRunner(NewScanner(f, store)).Run(ctx, refs)
	if f.Calls() != first {
		t.Errorf("second run fetched %d documents, want 0", f.Calls()-first)
	}
	for i, rec := range records {
		if rec.Archived != refs[i].Archived {
			t.Errorf("records[%d].Archived not refreshed", i)
		}
	}
}

// countingScanner tracks how many scans run at once.
type countingScanner struct {
	active atomic.Int32
	peak   atomic.Int32
	delay  time.Duration
}

func (c *countingScanner) Scan(ctx context.Context, ref model.RepositoryRef) *model.Record {
	n := c.active.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(c.delay)
	c.active.Add(-1)
	return model.NewRecord(ref)
}

func TestRunnerWorkerLimit(t *testing.T) {
	tests := []struct {
		workers int
		want    int32
	}{
		{1, 1},
		{4, 4},
		{0, DefaultWorkers},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("workers=%d", tt.workers), func(t *testing.T) {
			s := &countingScanner{delay: 5 * time.Millisecond}
			NewRunner(s, WithWorkers(tt.workers)).Run(context.Background(), makeRefs(60))
			if peak := s.peak.Load(); peak > tt.want {
				t.Errorf("peak concurrency = %d, want <= %d", peak, tt.want)
			}
		})
	}
}

type nilScanner struct{}

func (nilScanner) Scan(context.Context, model.RepositoryRef) *model.Record { return nil }

func TestRunnerFillsNilRecords(t *testing.T) {
	records := NewRunner(nilScanner{}).Run(context.Background(), makeRefs(3))
	for i, rec := range records {
		if rec == nil || rec.Repo == "" {
			t.Errorf("records[%d] = %+v, want empty record", i, rec)
		}
	}
}

func TestRunnerProgress(t *testing.T) {
	var mu sync.Mutex
	var calls []int
	total := 0
	r := NewRunner(&countingScanner{}, WithWorkers(3), WithProgress(func(done, n int, rec *model.Record) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, done)
		total = n
	}))

	r.Run(context.Background(), makeRefs(25))
	if len(calls) != 25 || total != 25 {
		t.Fatalf("progress called %d times (total %d), want 25", len(calls), total)
	}
	seen := map[int]bool{}
	for _, d := range calls {
		if d < 1 || d > 25 || seen[d] {
			t.Errorf("unexpected done value %d", d)
		}
		seen[d] = true
	}
}

func TestRunnerEmpty(t *testing.T) {
	records := NewRunner(&countingScanner{}).Run(context.Background(), nil)
	if len(records) != 0 {
		t.Errorf("got %d records for no refs", len(records))
	}
}
