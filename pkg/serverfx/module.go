package serverfx

import (
	"go.uber.org/fx"

	"github.com/joeydtaylor/steeze-gateway/pkg/config"
	"github.com/joeydtaylor/steeze-gateway/pkg/core"
	"github.com/joeydtaylor/steeze-gateway/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-gateway/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-gateway/pkg/transport/httpx"
)

// ---------- Options ----------

type Options struct {
	Service  string         // for logs only
	Registry *core.Registry // handlers served by the gateway
	Config   func() (*config.Config, error)
}

type Option func(*Options)

func WithService(s string) Option          { return func(o *Options) { o.Service = s } }
func WithRegistry(r *core.Registry) Option { return func(o *Options) { o.Registry = r } }
func WithConfig(c *config.Config) Option {
	return func(o *Options) { o.Config = func() (*config.Config, error) { return c, nil } }
}

func defaultOptions() Options {
	return Options{
		Service:  "steeze-gateway",
		Registry: core.DefaultRegistry,
		Config:   config.Load,
	}
}

// Module returns the complete gateway service: config, logs, middleware,
// endpoint store, transactions, error sink, router and HTTP server.
func Module(opts ...Option) fx.Option {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return fx.Options(
		fx.Supply(o),
		fx.Provide(func(o Options) (*config.Config, error) { return o.Config() }),

		// Logs and middleware
		fx.Provide(provideLoggers),
		fx.Provide(provideAccessLog),
		fx.Provide(authSettings),
		auth.Module,
		metrics.Module,

		// Router impl
		fx.Provide(httpx.NewChi),

		// Backends
		fx.Provide(provideClients),
		fx.Provide(provideStore),
		fx.Provide(provideTxManager),
		fx.Provide(provideErrorSink),

		// Gateway + router
		fx.Provide(provideGateway),
		fx.Provide(fx.Annotate(provideRouter, fx.ResultTags(`name:"app"`))),

		// Lifecycle
		fx.Invoke(registerHooks),
	)
}
