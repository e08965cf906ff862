package serverfx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-gateway/pkg/config"
	"github.com/joeydtaylor/steeze-gateway/pkg/core"
	"github.com/joeydtaylor/steeze-gateway/pkg/errlog"
	"github.com/joeydtaylor/steeze-gateway/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-gateway/pkg/store"
)

const testManifest = `
[[endpoint]]
name = "ping"
method = "GET"
handler = "echo"
allow_guest = true

[[endpoint]]
name = "secret"
method = "POST"
handler = "echo"
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "manifest.toml")
	require.NoError(t, os.WriteFile(p, []byte(testManifest), 0o600))

	cfg := config.New()
	cfg.ManifestPath = p
	cfg.LogDir = filepath.Join(dir, "log")
	cfg.ListenAddress = "127.0.0.1:0"
	require.NoError(t, cfg.Validate())
	return cfg
}

func testRegistry() *core.Registry {
	reg := core.NewRegistry()
	reg.MustRegister("echo", core.Params{}, func(context.Context, *core.Call, core.Kwargs) (any, error) {
		return "pong", nil
	})
	return reg
}

func TestModule_ServesGateway(t *testing.T) {
	var app http.Handler
	fxApp := fxtest.New(t,
		Module(WithConfig(testConfig(t)), WithRegistry(testRegistry())),
		fx.Invoke(fx.Annotate(func(h http.Handler) { app = h }, fx.ParamTags(`name:"app"`))),
	)
	fxApp.RequireStart()
	defer fxApp.RequireStop()
	require.NotNil(t, app)

	t.Run("guest endpoint", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var env map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, "pong", env["data"])
	})

	t.Run("guest refused", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/secret", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("heartbeat", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestModule_SessionFromConfig(t *testing.T) {
	sessions := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sid"); err == nil && c.Value == "live" {
			_, _ = w.Write([]byte(`{"username":"dana"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer sessions.Close()

	cfg := testConfig(t)
	cfg.SessionAPI = sessions.URL
	cfg.SessionCookie = "sid"

	var app http.Handler
	fxApp := fxtest.New(t,
		Module(WithConfig(cfg), WithRegistry(testRegistry())),
		fx.Invoke(fx.Annotate(func(h http.Handler) { app = h }, fx.ParamTags(`name:"app"`))),
	)
	fxApp.RequireStart()
	defer fxApp.RequireStop()

	call := func(method, path, sid string) int {
		r := httptest.NewRequest(method, path, strings.NewReader(`{}`))
		r.AddCookie(&http.Cookie{Name: "sid", Value: sid})
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call(http.MethodGet, "/api/v1/ping", "expired"), "expired session still reaches guest endpoints")
	assert.Equal(t, http.StatusForbidden, call(http.MethodPost, "/api/v1/secret", "expired"))
	assert.Equal(t, http.StatusOK, call(http.MethodPost, "/api/v1/secret", "live"))
}

func TestAuthSettings(t *testing.T) {
	cfg := config.New()
	cfg.SessionAPI = "http://session.local/state"
	cfg.SessionCookie = "sid"
	cfg.AdminRole = "admin"
	cfg.AuthDevBypass = true
	cfg.AssertionKeyURL = "http://keys.local/jwks"
	cfg.AssertionLeeway = 5 * time.Second

	s := authSettings(cfg)
	assert.Equal(t, "http://session.local/state", s.SessionAPI)
	assert.Equal(t, "sid", s.SessionCookie)
	assert.Equal(t, "admin", s.AdminRole)
	assert.True(t, s.DevBypass)
	assert.Equal(t, "assert", s.AssertionCookie)
	assert.Equal(t, "http://keys.local/jwks", s.AssertionKeyURL)
	assert.Equal(t, 5*time.Second, s.AssertionLeeway)
}

func TestModule_BadManifestFailsStartup(t *testing.T) {
	cfg := testConfig(t)
	cfg.ManifestPath = filepath.Join(t.TempDir(), "missing.toml")

	err := fx.New(
		fx.NopLogger,
		Module(WithConfig(cfg), WithRegistry(testRegistry())),
	).Err()
	assert.Error(t, err)
}

func TestProvideTxManager(t *testing.T) {
	assert.IsType(t, core.NoopTxManager{}, provideTxManager(store.Clients{}))
}

func TestProvideErrorSink(t *testing.T) {
	ls := logger.Loggers{System: zap.NewNop(), Access: zap.NewNop(), Error: zap.NewNop()}
	lc := fxtest.NewLifecycle(t)

	cfg := config.New()
	assert.IsType(t, &errlog.Zap{}, provideErrorSink(lc, cfg, ls, store.Clients{}))

	cfg.ErrorSink = config.SinkBoth
	assert.IsType(t, &errlog.Zap{}, provideErrorSink(lc, cfg, ls, store.Clients{}), "no client falls back to the file sink")
}

func TestOpenClients_None(t *testing.T) {
	c, release, err := OpenClients(context.Background(), config.New())
	require.NoError(t, err)
	assert.Nil(t, c.Redis)
	assert.Nil(t, c.Pool)
	release()
}
