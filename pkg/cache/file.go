package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/repometa/pkg/model"
)

// FileStore keeps one JSON file per repository under a directory.
// The directory is created on the first write, not on construction, so a
// read-only run never touches the filesystem.
type FileStore struct {
	dir  string
	opts options

	mkdirOnce sync.Once
	mkdirErr  error
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string, opts ...Option) *FileStore {
	return &FileStore{dir: dir, opts: buildOptions(opts)}
}

// Dir returns the cache directory.
func (c *FileStore) Dir() string { return c.dir }

// Get retrieves the record for owner/name.
func (c *FileStore) Get(ctx context.Context, owner, name string) (*model.Record, bool, error) {
	path, err := c.path(owner, name)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rec, ts, ok := decodeEntry(data)
	if !ok {
		// Invalid cache entry - treat as miss
		return nil, false, nil
	}
	if expired(ts, c.opts.clock(), c.opts.ttl) {
		return nil, false, nil
	}
	return rec, true, nil
}

// Put stores rec for owner/name. The entry is written to a temporary file
// in the same directory and renamed into place, so concurrent readers see
// either the old entry or the new one.
func (c *FileStore) Put(ctx context.Context, owner, name string, rec *model.Record) error {
	path, err := c.path(owner, name)
	if err != nil {
		return err
	}
	if err := c.ensureDir(); err != nil {
		return err
	}

	data, err := encodeEntry(rec, c.opts.clock())
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Clear removes all cache entries. A missing directory counts as empty.
func (c *FileStore) Clear(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		// Leave files in a shared directory alone unless they are entries.
		if _, _, ok := SplitKey(strings.TrimSuffix(e.Name(), ".json")); !ok {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Close does nothing for file cache.
func (c *FileStore) Close() error {
	return nil
}

func (c *FileStore) ensureDir() error {
	c.mkdirOnce.Do(func() {
		c.mkdirErr = os.MkdirAll(c.dir, 0755)
	})
	return c.mkdirErr
}

func (c *FileStore) path(owner, name string) (string, error) {
	key, err := Key(owner, name)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.dir, key+".json"), nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
