package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/repometa/pkg/model"
)

// DefaultMemoryEntries bounds a [MemoryStore] created with size <= 0.
const DefaultMemoryEntries = 4096

// MemoryStore keeps encoded entries in a bounded in-process LRU. It serves
// single runs that should not touch disk, and tests. Entries are stored in
// their encoded form, so callers never share a record with the store.
type MemoryStore struct {
	entries *lru.Cache[string, []byte]
	opts    options
}

// NewMemoryStore creates a store holding at most size entries.
func NewMemoryStore(size int, opts ...Option) (*MemoryStore, error) {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{entries: entries, opts: buildOptions(opts)}, nil
}

// Get retrieves the record for owner/name.
func (c *MemoryStore) Get(ctx context.Context, owner, name string) (*model.Record, bool, error) {
	key, err := Key(owner, name)
	if err != nil {
		return nil, false, err
	}
	data, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	rec, ts, ok := decodeEntry(data)
	if !ok || expired(ts, c.opts.clock(), c.opts.ttl) {
		return nil, false, nil
	}
	return rec, true, nil
}

// Put stores rec for owner/name.
func (c *MemoryStore) Put(ctx context.Context, owner, name string, rec *model.Record) error {
	key, err := Key(owner, name)
	if err != nil {
		return err
	}
	data, err := encodeEntry(rec, c.opts.clock())
	if err != nil {
		return err
	}
	c.entries.Add(key, data)
	return nil
}

// Clear drops every entry.
func (c *MemoryStore) Clear(ctx context.Context) (int, error) {
	n := c.entries.Len()
	c.entries.Purge()
	return n, nil
}

// Close does nothing.
func (c *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
