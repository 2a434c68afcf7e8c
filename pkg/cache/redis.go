package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/repometa/pkg/errors"
	"github.com/matzehuels/repometa/pkg/model"
)

// RedisPrefix namespaces repometa entries inside a shared Redis database.
const RedisPrefix = "repometa:"

// expirySlack keeps Redis from evicting an entry before its timestamp says
// it is stale.
const expirySlack = time.Minute

// RedisStore keeps cache entries in Redis under RedisPrefix+Key. Entries
// expire shortly after the store TTL; freshness is still decided from the
// stored timestamp so that both backends agree on the boundary.
type RedisStore struct {
	client redis.UniversalClient
	opts   options
}

// NewRedisStore connects to the Redis server at url (redis://host:port/db)
// and verifies the connection with a PING.
func NewRedisStore(ctx context.Context, url string, opts ...Option) (*RedisStore, error) {
	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse redis url")
	}
	client := redis.NewClient(ropts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis")
	}
	return NewRedisStoreWithClient(client, opts...), nil
}

// NewRedisStoreWithClient wraps an existing client. The store takes
// ownership and closes it on Close.
func NewRedisStoreWithClient(client redis.UniversalClient, opts ...Option) *RedisStore {
	return &RedisStore{client: client, opts: buildOptions(opts)}
}

// Get retrieves the record for owner/name.
func (c *RedisStore) Get(ctx context.Context, owner, name string) (*model.Record, bool, error) {
	key, err := Key(owner, name)
	if err != nil {
		return nil, false, err
	}
	data, err := c.client.Get(ctx, RedisPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	rec, ts, ok := decodeEntry(data)
	if !ok || expired(ts, c.opts.clock(), c.opts.ttl) {
		return nil, false, nil
	}
	return rec, true, nil
}

// Put stores rec for owner/name. SET replaces the value atomically.
func (c *RedisStore) Put(ctx context.Context, owner, name string, rec *model.Record) error {
	key, err := Key(owner, name)
	if err != nil {
		return err
	}
	data, err := encodeEntry(rec, c.opts.clock())
	if err != nil {
		return err
	}
	return c.client.Set(ctx, RedisPrefix+key, data, c.opts.ttl+expirySlack).Err()
}

// Clear deletes every key under RedisPrefix.
func (c *RedisStore) Clear(ctx context.Context) (int, error) {
	removed := 0
	iter := c.client.Scan(ctx, 0, RedisPrefix+"*", 100).Iterator()
	var batch []string
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		removed += int(n)
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	return removed, flush()
}

// Close closes the underlying client.
func (c *RedisStore) Close() error {
	return c.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
