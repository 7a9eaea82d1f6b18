// Package mongo implements the user, patient and audit stores on the
// official driver.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second

	// appName shows up in the server logs and in currentOp output, which
	// makes this service's connections identifiable on a shared cluster.
	appName = "clinic-api"
)

// Config captures the connection settings for the clinic record database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// dialTimeout bounds the dial plus the verification ping as one unit.
func (c Config) dialTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

// Connect dials the cluster, verifies it answers a ping, and returns the
// client together with the clinic database handle.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.dialTimeout())
	defer cancel()

	opts := options.Client().ApplyURI(cfg.URI).SetAppName(appName)
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
