package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeydtaylor/steeze-gateway/pkg/config"
	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

const sampleManifest = `
[[endpoint]]
name = "ping"
method = "GET"
handler = "echo"
allow_guest = true

[[endpoint]]
name = "create_note"
methods = ["post", "put"]
handler = "create_note"
model = "note"
transformers = ["trim"]
`

func writeManifest(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(p, []byte(sampleManifest), 0o600))
	return p
}

type memWriter struct {
	got  []manifest.Endpoint
	fail string
}

func (w *memWriter) Put(_ context.Context, ep manifest.Endpoint) error {
	if ep.Name == w.fail {
		return errors.New("write refused")
	}
	w.got = append(w.got, ep)
	return nil
}

func TestManifestStore(t *testing.T) {
	s, err := OpenManifest(writeManifest(t))
	require.NoError(t, err)
	defer s.Close()

	ep, err := s.Get(context.Background(), "create_note")
	require.NoError(t, err)
	assert.Equal(t, "note", ep.Model)
	assert.Equal(t, []string{"POST", "PUT"}, ep.AllowedMethods())

	_, err = s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, s.Config().Endpoints, 2)
}

func TestOpenManifest_BadPath(t *testing.T) {
	_, err := OpenManifest(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	t.Run("manifest driver", func(t *testing.T) {
		cfg := config.New()
		cfg.ManifestPath = writeManifest(t)
		s, err := Open(context.Background(), cfg, Clients{})
		require.NoError(t, err)
		assert.IsType(t, &Manifest{}, s)
	})

	t.Run("redis driver needs a client", func(t *testing.T) {
		cfg := config.New()
		cfg.StoreDriver = config.DriverRedis
		_, err := Open(context.Background(), cfg, Clients{})
		assert.ErrorContains(t, err, "needs a client")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := config.New()
		cfg.StoreDriver = "etcd"
		_, err := Open(context.Background(), cfg, Clients{})
		assert.ErrorContains(t, err, "unknown driver")
	})
}

func TestSeed(t *testing.T) {
	m, err := OpenManifest(writeManifest(t))
	require.NoError(t, err)

	w := &memWriter{}
	require.NoError(t, Seed(context.Background(), w, m.Config()))
	assert.Len(t, w.got, 2)

	w = &memWriter{fail: "create_note"}
	err = Seed(context.Background(), w, m.Config())
	assert.ErrorContains(t, err, `seed "create_note"`)
}
