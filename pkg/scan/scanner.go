package scan

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repometa/pkg/cache"
	"github.com/matzehuels/repometa/pkg/extract"
	"github.com/matzehuels/repometa/pkg/model"
	"github.com/matzehuels/repometa/pkg/observability"
)

// Fetcher retrieves a documentation file from a repository. The bool is
// false when the file could not be retrieved for any reason.
type Fetcher interface {
	FetchDocument(ctx context.Context, owner, name, filename string) (string, bool)
}

// Scanner produces the record for a single repository.
type Scanner struct {
	fetcher  Fetcher
	store    cache.Store
	hooks    observability.ScanHooks
	logger   *log.Logger
	index    string
	sidebars []string
	refresh  bool
}

// Option configures a [Scanner].
type Option func(*Scanner)

// WithHooks sets the event receiver. Defaults to [observability.NoopScanHooks].
func WithHooks(h observability.ScanHooks) Option {
	return func(s *Scanner) {
		if h != nil {
			s.hooks = h
		}
	}
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRefresh skips cache reads. Fresh records are still written.
func WithRefresh(refresh bool) Option {
	return func(s *Scanner) { s.refresh = refresh }
}

// WithFiles overrides the documents fetched per repository: index is parsed
// for front matter, sidebars for markdown heuristics, merged in order so
// that later files win.
func WithFiles(index string, sidebars ...string) Option {
	return func(s *Scanner) {
		if index != "" {
			s.index = index
		}
		if len(sidebars) > 0 {
			s.sidebars = sidebars
		}
	}
}

// NewScanner creates a Scanner reading documents through f and caching
// records in store.
func NewScanner(f Fetcher, store cache.Store, opts ...Option) *Scanner {
	s := &Scanner{
		fetcher:  f,
		store:    store,
		hooks:    observability.NoopScanHooks{},
		logger:   log.New(io.Discard),
		index:    model.IndexFile,
		sidebars: []string{model.InfoFile, model.LeadersFile},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan returns the record for ref. It never returns nil.
//
// On a cache hit the cached record is returned with Archived refreshed from
// ref. On a miss every document is fetched, metadata is extracted and the
// record is written back to the cache, even when no document was found.
// Cache failures are logged and otherwise ignored.
func (s *Scanner) Scan(ctx context.Context, ref model.RepositoryRef) *model.Record {
	start := time.Now()
	repo := ref.FullName()
	defer func() { s.hooks.OnScanComplete(ctx, repo, time.Since(start)) }()

	if !s.refresh {
		rec, hit, err := s.store.Get(ctx, ref.Owner, ref.Name)
		if err != nil {
			s.logger.Warn("cache read failed", "repo", repo, "error", err)
		}
		if hit {
			s.hooks.OnCacheHit(ctx, repo)
			s.logger.Debug("cache hit", "repo", repo)
			rec.Archived = ref.Archived
			return rec
		}
	}
	s.hooks.OnCacheMiss(ctx, repo)
	s.logger.Debug("cache miss", "repo", repo)

	rec := s.fetch(ctx, ref)

	// A canceled run would otherwise cache empty records for a full TTL.
	if ctx.Err() != nil {
		return rec
	}
	if err := s.store.Put(ctx, ref.Owner, ref.Name, rec); err != nil {
		s.logger.Warn("cache write failed", "repo", repo, "error", err)
	}
	return rec
}

func (s *Scanner) fetch(ctx context.Context, ref model.RepositoryRef) *model.Record {
	rec := model.NewRecord(ref)
	repo := rec.Repo

	if text, ok := s.get(ctx, ref, s.index); ok {
		rec.SourceFiles = append(rec.SourceFiles, s.index)
		rec.FrontMatter = extract.FrontMatter(text)
		if len(rec.FrontMatter) == 0 {
			s.logger.Debug("no front matter", "repo", repo, "file", s.index)
		}
	}

	for _, name := range s.sidebars {
		text, ok := s.get(ctx, ref, name)
		if !ok {
			continue
		}
		rec.SourceFiles = append(rec.SourceFiles, name)
		extract.Merge(rec.Sidebar, extract.Sidebar(text))
	}

	if len(rec.SourceFiles) == 0 {
		s.logger.Warn("no documents found", "repo", repo)
	}
	return rec
}

func (s *Scanner) get(ctx context.Context, ref model.RepositoryRef, filename string) (string, bool) {
	text, ok := s.fetcher.FetchDocument(ctx, ref.Owner, ref.Name, filename)
	s.hooks.OnFetch(ctx, ref.FullName(), filename, ok)
	if !ok {
		s.logger.Debug("document missing", "repo", ref.FullName(), "file", filename)
	}
	return text, ok
}
