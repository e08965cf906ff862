package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-gateway/pkg/config"
	"github.com/joeydtaylor/steeze-gateway/pkg/core"
	"github.com/joeydtaylor/steeze-gateway/pkg/errlog"
	"github.com/joeydtaylor/steeze-gateway/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-gateway/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-gateway/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-gateway/pkg/store"
	"github.com/joeydtaylor/steeze-gateway/pkg/transport/httpx"
	"github.com/joeydtaylor/steeze-gateway/pkg/txn"
)

// ---------- Logs ----------

type loggersOut struct {
	fx.Out
	Loggers logger.Loggers
	System  *zap.Logger
}

func provideLoggers(lc fx.Lifecycle, cfg *config.Config) loggersOut {
	ls := logger.Open(cfg.LogDir)
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		ls.Sync()
		return nil
	}})
	return loggersOut{Loggers: ls, System: ls.System}
}

func provideAccessLog(cfg *config.Config, ls logger.Loggers) *logger.Middleware {
	logger.AddBodyLogPaths(cfg.LogBodyPaths...)
	return logger.New(ls.Access)
}

// ---------- Backends ----------

// OpenClients connects the shared redis client and postgres pool the config
// calls for. The returned func releases them.
func OpenClients(ctx context.Context, cfg *config.Config) (store.Clients, func(), error) {
	var c store.Clients
	if cfg.UsesRedis() {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			if c.Redis != nil {
				_ = c.Redis.Close()
			}
			return store.Clients{}, nil, err
		}
		c.Pool = pool
	}
	release := func() {
		if c.Redis != nil {
			_ = c.Redis.Close()
		}
		if c.Pool != nil {
			c.Pool.Close()
		}
	}
	return c, release, nil
}

func provideClients(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (store.Clients, error) {
	c, release, err := OpenClients(context.Background(), cfg)
	if err != nil {
		return store.Clients{}, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if c.Redis != nil {
				if err := c.Redis.Ping(ctx).Err(); err != nil {
					log.Warn("redis unreachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
				}
			}
			if c.Pool != nil {
				if err := c.Pool.Ping(ctx); err != nil {
					log.Warn("postgres unreachable", zap.Error(err))
				}
			}
			return nil
		},
		OnStop: func(context.Context) error {
			release()
			return nil
		},
	})
	return c, nil
}

func provideStore(lc fx.Lifecycle, cfg *config.Config, c store.Clients, o Options, log *zap.Logger) (store.Store, error) {
	st, err := store.Open(context.Background(), cfg, c)
	if err != nil {
		return nil, err
	}
	if m, ok := st.(*store.Manifest); ok {
		for _, e := range core.CheckEndpoints(m.Config().Endpoints, o.Registry) {
			log.Warn("endpoint misconfigured", zap.String("path", cfg.ManifestPath), zap.Error(e))
		}
	}
	log.Info("endpoint store ready", zap.String("driver", cfg.StoreDriver))
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return st.Close() }})
	return st, nil
}

func provideTxManager(c store.Clients) core.TxManager {
	if c.Pool != nil {
		return txn.NewManager(c.Pool)
	}
	return core.NoopTxManager{}
}

func provideErrorSink(lc fx.Lifecycle, cfg *config.Config, ls logger.Loggers, c store.Clients) core.ErrorSink {
	file := errlog.NewZap(ls.Error)
	if cfg.ErrorSink == config.SinkFile || c.Redis == nil {
		return file
	}
	list := errlog.NewRedis(c.Redis, cfg.ErrorListKey, cfg.ErrorListMax, ls.System)
	lc.Append(fx.Hook{OnStop: list.Close})
	if cfg.ErrorSink == config.SinkRedis {
		return list
	}
	return errlog.Multi{file, list}
}

// ---------- Gateway + router ----------

type gatewayDeps struct {
	fx.In
	Opts     Options
	Store    store.Store
	Tx       core.TxManager
	Sink     core.ErrorSink
	Log      *zap.Logger
	Observer *metrics.Observer
}

func provideGateway(d gatewayDeps) *core.Gateway {
	return core.NewGateway(d.Store,
		core.WithRegistry(d.Opts.Registry),
		core.WithTxManager(d.Tx),
		core.WithErrorSink(d.Sink),
		core.WithLogger(d.Log),
		core.WithObserver(d.Observer),
	)
}

// ---------- Auth ----------

func authSettings(cfg *config.Config) auth.Settings {
	return auth.Settings{
		SessionAPI:        cfg.SessionAPI,
		SessionCookie:     cfg.SessionCookie,
		AdminRole:         cfg.AdminRole,
		DevBypass:         cfg.AuthDevBypass,
		AssertionCookie:   cfg.AssertionCookie,
		AssertionKeyURL:   cfg.AssertionKeyURL,
		AssertionKeyKID:   cfg.AssertionKeyKID,
		AssertionIssuer:   cfg.AssertionIssuer,
		AssertionAudience: cfg.AssertionAudience,
		AssertionLeeway:   cfg.AssertionLeeway,
	}
}

type routerDeps struct {
	fx.In
	Cfg     *config.Config
	AuthMW  *auth.Middleware
	LogMW   *logger.Middleware
	Metrics metrics.Handler
	R       httpx.Router
	Gateway *core.Gateway
}

func provideRouter(d routerDeps) http.Handler {
	return core.BuildRouter(core.BuildDeps{
		Auth:    d.AuthMW,
		LogMW:   d.LogMW,
		Metrics: d.Metrics,
		Router:  d.R,
		Gateway: d.Gateway,
		Prefix:  d.Cfg.APIPrefix,
	})
}

// ---------- Lifecycle (HTTP server) ----------

type serverDeps struct {
	fx.In
	Opts   Options
	Cfg    *config.Config
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, d serverDeps) {
	addr := d.Cfg.ListenAddress
	cert, key := d.Cfg.TLSCert, d.Cfg.TLSKey

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(cert) && fileExists(key)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", addr),
					zap.String("cert", cert),
				)
				go func() {
					if err := srv.ListenAndServeTLS(cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
				return nil
			}
			d.Logger.Info("server starting (PLAINTEXT)",
				zap.String("service", d.Opts.Service),
				zap.String("addr", addr),
			)
			srv.TLSConfig = nil
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					d.Logger.Fatal("server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", d.Opts.Service))
			if d.Cfg.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d.Cfg.ShutdownTimeout)
				defer cancel()
			}
			return srv.Shutdown(ctx)
		},
	})
}

// ---------- helpers ----------

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
