// Package store provides the endpoint record backends: a TOML manifest, a
// redis hash, a postgres table and a DynamoDB table.
package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joeydtaylor/steeze-gateway/pkg/config"
	"github.com/joeydtaylor/steeze-gateway/pkg/core"
	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

// ErrNotFound is returned by Get for unknown endpoint names.
var ErrNotFound = core.ErrEndpointNotFound

// Store is an endpoint record backend.
type Store interface {
	Get(ctx context.Context, name string) (manifest.Endpoint, error)
	Close() error
}

// Writer is implemented by backends that accept record uploads.
type Writer interface {
	Put(ctx context.Context, ep manifest.Endpoint) error
}

// Clients are the shared connections a backend may reuse. Stores built on
// them do not close them.
type Clients struct {
	Redis *redis.Client
	Pool  *pgxpool.Pool
}

// Open builds the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, c Clients) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverManifest:
		return OpenManifest(cfg.ManifestPath)
	case config.DriverRedis:
		if c.Redis == nil {
			return nil, fmt.Errorf("store: redis driver needs a client")
		}
		return NewRedis(c.Redis, cfg.RedisKey), nil
	case config.DriverPostgres:
		if c.Pool != nil {
			return NewPostgres(c.Pool), nil
		}
		return OpenPostgres(ctx, cfg.DatabaseURL)
	case config.DriverDynamoDB:
		return OpenDynamoDB(cfg.AWSRegion, cfg.DynamoDBTable)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.StoreDriver)
	}
}

// Seed writes every endpoint of m into w.
func Seed(ctx context.Context, w Writer, m manifest.Config) error {
	for _, ep := range m.Endpoints {
		if err := w.Put(ctx, ep); err != nil {
			return fmt.Errorf("seed %q: %w", ep.Name, err)
		}
	}
	return nil
}
