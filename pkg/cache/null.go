package cache

import (
	"context"

	"github.com/matzehuels/repometa/pkg/model"
)

// NullStore is a no-op store that never stores anything.
// It backs --no-cache runs.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Get always returns a cache miss. Keys are still validated so that a
// disabled cache rejects the same input as an enabled one.
func (c *NullStore) Get(ctx context.Context, owner, name string) (*model.Record, bool, error) {
	if _, err := Key(owner, name); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// Put does nothing.
func (c *NullStore) Put(ctx context.Context, owner, name string, rec *model.Record) error {
	_, err := Key(owner, name)
	return err
}

// Clear does nothing.
func (c *NullStore) Clear(ctx context.Context) (int, error) {
	return 0, nil
}

// Close does nothing.
func (c *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
