package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

// hashClient is the subset of redis commands the store uses.
type hashClient interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Redis reads endpoint records from a hash: one field per endpoint name,
// each value a JSON object.
type Redis struct {
	client hashClient
	key    string
}

func NewRedis(c *redis.Client, key string) *Redis {
	return &Redis{client: c, key: key}
}

func (s *Redis) Get(ctx context.Context, name string) (manifest.Endpoint, error) {
	val, err := s.client.HGet(ctx, s.key, name).Result()
	if errors.Is(err, redis.Nil) {
		return manifest.Endpoint{}, ErrNotFound
	}
	if err != nil {
		return manifest.Endpoint{}, fmt.Errorf("redis hget %s %s: %w", s.key, name, err)
	}
	var ep manifest.Endpoint
	if err := json.Unmarshal([]byte(val), &ep); err != nil {
		return manifest.Endpoint{}, fmt.Errorf("redis record %q: %w", name, err)
	}
	if ep.Name == "" {
		ep.Name = name
	}
	return ep, nil
}

func (s *Redis) Put(ctx context.Context, ep manifest.Endpoint) error {
	b, err := json.Marshal(ep)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, s.key, ep.Name, b).Err()
}

// Close is a no-op; the client is owned by the caller.
func (s *Redis) Close() error { return nil }
