package store

import (
	"context"

	"github.com/joeydtaylor/steeze-gateway/pkg/core"
	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

// Manifest serves endpoints from a TOML manifest loaded once at startup.
type Manifest struct {
	cfg   manifest.Config
	index map[string]manifest.Endpoint
}

func NewManifest(cfg manifest.Config) *Manifest {
	return &Manifest{cfg: cfg, index: cfg.Index()}
}

// OpenManifest loads and validates the manifest at path.
func OpenManifest(path string) (*Manifest, error) {
	cfg, err := core.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return NewManifest(cfg), nil
}

func (m *Manifest) Get(_ context.Context, name string) (manifest.Endpoint, error) {
	ep, ok := m.index[name]
	if !ok {
		return manifest.Endpoint{}, ErrNotFound
	}
	return ep, nil
}

// Config returns the loaded manifest.
func (m *Manifest) Config() manifest.Config { return m.cfg }

func (m *Manifest) Close() error { return nil }
