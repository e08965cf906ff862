package auth

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Settings configures the identity middleware. Zero values disable the
// corresponding source.
type Settings struct {
	SessionAPI        string
	SessionCookie     string
	AdminRole         string
	DevBypass         bool
	AssertionCookie   string
	AssertionKeyURL   string // JWKS or PEM endpoint
	AssertionKeyKID   string
	AssertionIssuer   string
	AssertionAudience string
	AssertionLeeway   time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.AssertionCookie == "" {
		s.AssertionCookie = "assert"
	}
	if s.AssertionLeeway <= 0 {
		s.AssertionLeeway = 60 * time.Second
	}
	return s
}

// SetLogger routes rejected-credential and key refresh messages to l.
func (m *Middleware) SetLogger(l *zap.Logger) {
	if l != nil {
		m.log = l
	}
}

type params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Settings  Settings
	Logger    *zap.Logger `optional:"true"`
}

// ProvideAuthentication wires the middleware into the fx lifecycle. The
// assertion key fetch on start is non-fatal; the background refresh retries.
func ProvideAuthentication(p params) *Middleware {
	m := New(p.Settings, nil)
	if p.Logger != nil {
		m.SetLogger(p.Logger.Named("auth"))
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if m.assertKeyURL == "" {
				return nil
			}
			if err := m.refreshAssertionKey(ctx); err != nil {
				m.log.Warn("assertion key fetch failed", zap.String("url", m.assertKeyURL), zap.Error(err))
			}
			m.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			m.Stop()
			return nil
		},
	})
	return m
}

// Module provides *Middleware. Settings must be supplied by the caller.
var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)
