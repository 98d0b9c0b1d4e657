package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// AccountCache implements ports.AccountCache using Redis. It holds JSON
// snapshots of accounts keyed by account number.
type AccountCache struct {
	client *goredis.Client
	prefix string
}

// NewAccountCache creates a new Redis-backed account cache.
func NewAccountCache(client *goredis.Client) *AccountCache {
	return &AccountCache{
		client: client,
		prefix: "account:",
	}
}

// Get retrieves a cached account snapshot by account number.
// Returns nil, nil if the key does not exist.
func (c *AccountCache) Get(ctx context.Context, accountNumber string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+accountNumber).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis account get: %w", err)
	}
	return val, nil
}

// Set stores an account snapshot with TTL.
func (c *AccountCache) Set(ctx context.Context, accountNumber string, value []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+accountNumber, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis account set: %w", err)
	}
	return nil
}

// Delete drops a snapshot after a mutation. Deleting a missing key is
// not an error.
func (c *AccountCache) Delete(ctx context.Context, accountNumber string) error {
	err := c.client.Del(ctx, c.prefix+accountNumber).Err()
	if err != nil {
		return fmt.Errorf("redis account del: %w", err)
	}
	return nil
}
