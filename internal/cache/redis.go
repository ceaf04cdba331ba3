package cache

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Client backs the read-through sentiment summary cache. It stays nil until
// InitRedis runs; the pipeline treats a nil client as cache-disabled.
var Client *redis.Client

var (
	newRedisClient = redis.NewClient
	pingRedis      = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
)

// redisOptions builds client options from the REDIS_URL value, accepting
// either a bare host:port or a redis:// / rediss:// URL.
func redisOptions(addr string) (*redis.Options, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts.ClientName = "coinpulse"
		return opts, nil
	}
	return &redis.Options{Addr: addr, ClientName: "coinpulse"}, nil
}

func InitRedis(ctx context.Context) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}

	opts, err := redisOptions(addr)
	if err != nil {
		log.Fatalf("parse REDIS_URL: %v", err)
	}

	Client = newRedisClient(opts)
	if err := pingRedis(ctx, Client); err != nil {
		log.Fatalf("redis ping failed: %v", err)
	}
	log.Printf("Summary cache ready on %s", opts.Addr)
}
