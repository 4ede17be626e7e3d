package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "tokenhome/pkg/domain"
)

const cacheGenKey = "tokenhome:uri:gen"

// maxRangeInvalidation bounds per-key range invalidation. Refresh-hint ranges
// are caller-controlled and may span the whole uint64 id space; past this
// width a generation bump is cheaper than enumerating keys.
const maxRangeInvalidation = 4096

// Cache keeps composed default-path URIs in redis with a TTL. Keys embed a
// generation counter; bumping the generation on a base URI/extension change
// invalidates every cached URI in one INCR instead of a keyspace scan.
//
// The cache is not registry state: losing it, or skipping it entirely, only
// costs recomputation.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache wraps a redis client. ttl bounds staleness for consumers that
// bypass the refresh-hint flow.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns the cached URI for a token, or "" on miss. Redis failures are
// reported as misses with the error so callers can log and fall through.
func (c *Cache) Get(ctx context.Context, tokenID id.TokenID) (string, error) {
	key, err := c.key(ctx, tokenID)
	if err != nil {
		return "", err
	}
	uri, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("uri cache get: %w", err)
	}
	return uri, nil
}

// Set stores a composed URI for a token.
func (c *Cache) Set(ctx context.Context, tokenID id.TokenID, uri string) error {
	key, err := c.key(ctx, tokenID)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, uri, c.ttl).Err(); err != nil {
		return fmt.Errorf("uri cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached URI for one token.
func (c *Cache) Invalidate(ctx context.Context, tokenID id.TokenID) error {
	key, err := c.key(ctx, tokenID)
	if err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("uri cache invalidate: %w", err)
	}
	return nil
}

// InvalidateRange drops cached URIs for an inclusive identifier range.
// Oversized ranges fall back to InvalidateAll rather than materializing one
// key per id.
func (c *Cache) InvalidateRange(ctx context.Context, from, to id.TokenID) error {
	if to < from {
		return nil
	}
	if width := uint64(to-from) + 1; width > maxRangeInvalidation {
		return c.InvalidateAll(ctx)
	}

	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, int(to-from)+1)
	for t := from; t <= to; t++ {
		keys = append(keys, fmt.Sprintf("tokenhome:uri:%d:%s", gen, t))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("uri cache invalidate range: %w", err)
	}
	return nil
}

// InvalidateAll abandons the current generation. Old keys expire via TTL.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, cacheGenKey).Err(); err != nil {
		return fmt.Errorf("uri cache generation bump: %w", err)
	}
	return nil
}

func (c *Cache) key(ctx context.Context, tokenID id.TokenID) (string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("tokenhome:uri:%d:%s", gen, tokenID), nil
}

func (c *Cache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, cacheGenKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("uri cache generation: %w", err)
	}
	return gen, nil
}
