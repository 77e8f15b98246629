package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis publishes with PUBLISH on a pub/sub channel.
type Redis struct {
	client *redis.Client
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(addr, password string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return &Redis{client: client}, nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Publish(ctx context.Context, channel string, payload []byte) error {
	if channel == "" {
		return errEmptySubject
	}
	return r.client.Publish(ctx, channel, payload).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
