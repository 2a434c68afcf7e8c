package scan

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/repometa/pkg/cache"
	"github.com/matzehuels/repometa/pkg/model"
	"github.com/matzehuels/repometa/pkg/observability"
)

// fakeFetcher serves documents from a map keyed by "owner/name/file".
type fakeFetcher struct {
	mu    sync.Mutex
	docs  map[string]string
	calls int
	delay time.Duration
}

func (f *fakeFetcher) FetchDocument(ctx context.Context, owner, name, filename string) (string, bool) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	text, ok := f.docs[owner+"/"+name+"/"+filename]
	return text, ok
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const (
	indexDoc   = "---\ntitle: Tool\nlevel: 3\n---\nbody\n"
	infoDoc    = "<i class=\"fas fa-tools\"></i> Lab Project\nReleased under the MIT License\n"
	leadersDoc = "### Leaders\n* [Jane Doe](mailto:jane@example.org)\n\nApache 2.0\n"
)

func fullDocs(owner, name string) map[string]string {
	prefix := owner + "/" + name + "/"
	return map[string]string{
		prefix + model.IndexFile:   indexDoc,
		prefix + model.InfoFile:    infoDoc,
		prefix + model.LeadersFile: leadersDoc,
	}
}

func TestScanMiss(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{docs: fullDocs("OWASP", "tool")}
	store := cache.NewFileStore(t.TempDir())
	counters := &observability.Counters{}
	s := NewScanner(f, store, WithHooks(counters))

	rec := s.Scan(ctx, model.RepositoryRef{Owner: "OWASP", Name: "tool", Archived: true})

	if rec.Repo != "OWASP/tool" {
		t.Errorf("Repo = %q", rec.Repo)
	}
	if !rec.Archived {
		t.Error("Archived should come from the ref")
	}
	wantFiles := []string{model.IndexFile, model.InfoFile, model.LeadersFile}
	if !reflect.DeepEqual(rec.SourceFiles, wantFiles) {
		t.Errorf("SourceFiles = %v, want %v", rec.SourceFiles, wantFiles)
	}
	if rec.FrontMatter["title"] != "Tool" || rec.FrontMatter["level"] != 3 {
		t.Errorf("FrontMatter = %v", rec.FrontMatter)
	}
	if rec.Sidebar["license"] != "Apache 2.0" {
		t.Errorf("license = %v, want leaders.md value", rec.Sidebar["license"])
	}
	if rec.Sidebar["sidebar_type"] != "Tool" || rec.Sidebar["project_classification"] != "Lab" {
		t.Errorf("info.md fields missing: %v", rec.Sidebar)
	}
	if _, ok := rec.Sidebar["leaders_list"]; !ok {
		t.Errorf("leaders_list missing: %v", rec.Sidebar)
	}

	stats := counters.Snapshot()
	want := observability.Stats{Scans: 1, CacheMisses: 1, Fetched: 3}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestScanIdempotent(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{docs: fullDocs("OWASP", "tool")}
	store := cache.NewFileStore(t.TempDir())
	s := NewScanner(f, store)

	first := s.Scan(ctx, model.RepositoryRef{Owner: "OWASP", Name: "tool", Archived: false})
	fetches := f.Calls()
	if fetches != 3 {
		t.Fatalf("first scan fetched %d documents, want 3", fetches)
	}

	second := s.Scan(ctx, model.RepositoryRef{Owner: "OWASP", Name: "tool", Archived: true})
	if f.Calls() != fetches {
		t.Errorf("second scan fetched %d documents, want 0", f.Calls()-fetches)
	}
	if !second.Archived {
		t.Error("Archived should be refreshed on cache hit")
	}
	if !reflect.DeepEqual(first.SourceFiles, second.SourceFiles) {
		t.Errorf("SourceFiles differ: %v vs %v", first.SourceFiles, second.SourceFiles)
	}
	if second.FrontMatter["title"] != "Tool" || second.Sidebar["license"] != "Apache 2.0" {
		t.Errorf("cached record differs: %+v", second)
	}
}

func TestScanCachedRecordMatchesFresh(t *testing.T) {
	ctx := context.Background()
	ref := model.RepositoryRef{Owner: "OWASP", Name: "zap"}
	f := &fakeFetcher{docs: map[string]string{
		"OWASP/zap/" + model.IndexFile: "---\ntitle: ZAP\ndate: !!timestamp 2020-01-02\nupdated: !!timestamp 2020-01-02T10:30:00Z\nscore: .inf\n---\n",
	}}
	store := cache.NewFileStore(t.TempDir())
	s := NewScanner(f, store)

	fresh := s.Scan(ctx, ref)
	cached := s.Scan(ctx, ref)

	if f.Calls() != 1+len(s.sidebars) {
		t.Fatalf("second scan fetched again (%d calls)", f.Calls())
	}
	for _, k := range []string{"title", "date", "updated", "score"} {
		if fresh.FrontMatter[k] != cached.FrontMatter[k] {
			t.Errorf("%s: fresh %#v, cached %#v", k, fresh.FrontMatter[k], cached.FrontMatter[k])
		}
	}
	if fresh.FrontMatter["date"] != "2020-01-02" {
		t.Errorf("date = %#v, want 2020-01-02", fresh.FrontMatter["date"])
	}
}

func TestScanCachesEmptyRecord(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{docs: map[string]string{}}
	store := cache.NewFileStore(t.TempDir())
	s := NewScanner(f, store)
	ref := model.RepositoryRef{Owner: "OWASP", Name: "empty"}

	rec := s.Scan(ctx, ref)
	if len(rec.SourceFiles) != 0 || len(rec.FrontMatter) != 0 || len(rec.Sidebar) != 0 {
		t.Errorf("expected empty record, got %+v", rec)
	}
	if rec.SourceFiles == nil {
		t.Error("SourceFiles should be empty, not nil")
	}

	if _, hit, err := store.Get(ctx, "OWASP", "empty"); err != nil || !hit {
		t.Fatalf("empty record should be cached: hit %v, err %v", hit, err)
	}
	before := f.Calls()
	s.Scan(ctx, ref)
	if f.Calls() != before {
		t.Error("empty record should be served from cache")
	}
}

func TestScanPartialDocuments(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{docs: map[string]string{
		"OWASP/tool/" + model.LeadersFile: leadersDoc,
	}}
	s := NewScanner(f, cache.NewNullStore())

	rec := s.Scan(ctx, model.RepositoryRef{Owner: "OWASP", Name: "tool"})
	if !reflect.DeepEqual(rec.SourceFiles, []string{model.LeadersFile}) {
		t.Errorf("SourceFiles = %v", rec.SourceFiles)
	}
	if len(rec.FrontMatter) != 0 {
		t.Errorf("FrontMatter = %v, want empty", rec.FrontMatter)
	}
	if rec.Sidebar["license"] != "Apache 2.0" {
		t.Errorf("Sidebar = %v", rec.Sidebar)
	}
}

func TestScanRefresh(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{docs: fullDocs("OWASP", "tool")}
	store := cache.NewFileStore(t.TempDir())
	ref := model.RepositoryRef{Owner: "OWASP", Name: "tool"}

	NewScanner(f, store).Scan(ctx, ref)
	before := f.Calls()

	NewScanner(f, store, WithRefresh(true)).Scan(ctx, ref)
	if f.Calls() != before+3 {
		t.Errorf("refresh should refetch: %d calls, want %d", f.Calls(), before+3)
	}
}

func TestScanNullStore(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{docs: fullDocs("OWASP", "tool")}
	s := NewScanner(f, cache.NewNullStore())
	ref := model.RepositoryRef{Owner: "OWASP", Name: "tool"}

	s.Scan(ctx, ref)
	s.Scan(ctx, ref)
	if f.Calls() != 6 {
		t.Errorf("NullStore should never hit: %d fetches, want 6", f.Calls())
	}
}

func TestScanInvalidKeyStillReturnsRecord(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{docs: map[string]string{}}
	s := NewScanner(f, cache.NewFileStore(t.TempDir()))

	rec := s.Scan(ctx, model.RepositoryRef{Owner: "bad_owner", Name: "repo"})
	if rec == nil || rec.Repo != "bad_owner/repo" {
		t.Errorf("expected record despite invalid key, got %+v", rec)
	}
}

func TestScanCustomFiles(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{docs: map[string]string{
		"OWASP/tool/README.md":  indexDoc,
		"OWASP/tool/sidebar.md": infoDoc,
	}}
	s := NewScanner(f, cache.NewNullStore(), WithFiles("README.md", "sidebar.md"))

	rec := s.Scan(ctx, model.RepositoryRef{Owner: "OWASP", Name: "tool"})
	if !reflect.DeepEqual(rec.SourceFiles, []string{"README.md", "sidebar.md"}) {
		t.Errorf("SourceFiles = %v", rec.SourceFiles)
	}
	if rec.Sidebar["license"] != "MIT" {
		t.Errorf("license = %v", rec.Sidebar["license"])
	}
}

func TestScanCanceledSkipsCacheWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := cache.NewFileStore(t.TempDir())
	s := NewScanner(&fakeFetcher{docs: map[string]string{}}, store)
	rec := s.Scan(ctx, model.RepositoryRef{Owner: "OWASP", Name: "tool"})
	if rec == nil {
		t.Fatal("Scan returned nil")
	}
	if _, hit, _ := store.Get(context.Background(), "OWASP", "tool"); hit {
		t.Error("canceled scan should not be cached")
	}
}

func ExampleScanner_Scan() {
	f := &fakeFetcher{docs: map[string]string{
		"OWASP/tool/index.md": "---\ntitle: Tool\n---\n",
	}}
	s := NewScanner(f, cache.NewNullStore())
	rec := s.Scan(context.Background(), model.RepositoryRef{Owner: "OWASP", Name: "tool"})
	fmt.Println(rec.Repo, rec.SourceFiles, rec.FrontMatter["title"])
	// Output: OWASP/tool [index.md] Tool
}
