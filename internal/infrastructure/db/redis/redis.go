// Package redis backs the QR code cache.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout = 5 * time.Second

	// clientName identifies this service in CLIENT LIST on a shared server.
	clientName = "clinic-api"
)

// Config captures the connection settings for the cache server.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// pingTimeout bounds the startup connectivity check.
func (c Config) pingTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

// Connect builds the client and verifies the server answers before the
// router starts serving. The cache holds only derived values, but a dead
// server at startup is a deployment error worth failing on.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.Addr,
		DB:         cfg.DB,
		ClientName: clientName,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.pingTimeout())
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
