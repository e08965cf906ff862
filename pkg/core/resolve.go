package core

import (
	"context"
	"errors"
	"strings"

	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

// EndpointStore is a point lookup of endpoint records by name. Misses return
// ErrEndpointNotFound.
type EndpointStore interface {
	Get(ctx context.Context, name string) (manifest.Endpoint, error)
}

// Resolver looks endpoints up on every call; it never caches.
type Resolver struct {
	store EndpointStore
}

func NewResolver(s EndpointStore) *Resolver { return &Resolver{store: s} }

// Resolve returns the normalized endpoint named name. A miss is reported as
// found=false with a nil error; any other store failure is returned.
func (r *Resolver) Resolve(ctx context.Context, name string) (manifest.Endpoint, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" || r.store == nil {
		return manifest.Endpoint{}, false, nil
	}
	ep, err := r.store.Get(ctx, name)
	if errors.Is(err, ErrEndpointNotFound) {
		return manifest.Endpoint{}, false, nil
	}
	if err != nil {
		return manifest.Endpoint{}, false, err
	}
	return ep.Normalized(), true, nil
}
