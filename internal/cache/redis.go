// internal/cache/redis.go
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// DefaultKeyPrefix namespaces room-code reservations.
const DefaultKeyPrefix = "typerace:room:"

// ConnectRedis initializes the global Redis client and pings it.
func ConnectRedis(addr string, db int) error {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	Rdb = client
	return nil
}

// RedisCodeReserver reserves room codes with SETNX so that several server processes
// sharing one Redis never hand out the same code. Keys expire after ttl in case a
// process dies without releasing them.
type RedisCodeReserver struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	owner  string
}

// NewRedisCodeReserver builds a reserver on client. owner is stored as the key value so
// an operator can tell which instance holds a code.
func NewRedisCodeReserver(client *redis.Client, prefix, owner string, ttl time.Duration) *RedisCodeReserver {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisCodeReserver{client: client, prefix: prefix, ttl: ttl, owner: owner}
}

func (r *RedisCodeReserver) Reserve(ctx context.Context, code string) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.prefix+code, r.owner, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to SETNX room code '%s': %w", code, err)
	}
	return ok, nil
}

func (r *RedisCodeReserver) Release(ctx context.Context, code string) error {
	if err := r.client.Del(ctx, r.prefix+code).Err(); err != nil {
		return fmt.Errorf("failed to DEL room code '%s': %w", code, err)
	}
	return nil
}
