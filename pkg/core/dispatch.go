package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-gateway/pkg/core/transform"
	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

// Observer receives one callback per dispatch. endpoint is empty when the
// request type did not resolve.
type Observer interface {
	ObserveDispatch(endpoint string, status int, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveDispatch(string, int, time.Duration) {}

// Gateway runs the resolve, validate, dispatch pipeline for one request at a
// time. It holds no per-call state and is safe for concurrent use.
type Gateway struct {
	resolver *Resolver
	registry *Registry
	tx       TxManager
	sink     ErrorSink
	log      *zap.Logger
	obs      Observer
}

type Option func(*Gateway)

func WithRegistry(r *Registry) Option {
	return func(g *Gateway) {
		if r != nil {
			g.registry = r
		}
	}
}

func WithTxManager(m TxManager) Option {
	return func(g *Gateway) {
		if m != nil {
			g.tx = m
		}
	}
}

func WithErrorSink(s ErrorSink) Option {
	return func(g *Gateway) {
		if s != nil {
			g.sink = s
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(g *Gateway) {
		if o != nil {
			g.obs = o
		}
	}
}

func NewGateway(store EndpointStore, opts ...Option) *Gateway {
	g := &Gateway{
		resolver: NewResolver(store),
		registry: DefaultRegistry,
		tx:       NoopTxManager{},
		sink:     nopSink{},
		log:      zap.NewNop(),
		obs:      nopObserver{},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Dispatch produces exactly one envelope for req. No error escapes.
func (g *Gateway) Dispatch(ctx context.Context, req Request) (env Envelope) {
	start := time.Now()
	req.Method = strings.ToUpper(strings.TrimSpace(req.Method))

	ep, found, err := g.resolver.Resolve(ctx, req.Type)
	label := ""
	if found {
		label = ep.Name
	}
	defer func() { g.obs.ObserveDispatch(label, env.Status, time.Since(start)) }()
	// Model validators and transformers run outside the handler; a panic in
	// either still ends in the catch-all envelope.
	defer func() {
		if r := recover(); r != nil {
			env = g.fail(ctx, req, fmt.Errorf("%w: %v", ErrPanic, r))
		}
	}()

	if err != nil {
		return g.fail(ctx, req, fmt.Errorf("resolve endpoint %q: %w", req.Type, err))
	}
	if env, ok := Validate(ep, found, req); !ok {
		return env
	}
	return g.invoke(ctx, req, ep)
}

func (g *Gateway) invoke(ctx context.Context, req Request, ep manifest.Endpoint) Envelope {
	call := newCall(req, ep)
	payload := req.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	var model any
	if ep.Model != "" {
		v, err := BuildModel(ep.Model, payload)
		if err != nil {
			return g.fail(ctx, req, err)
		}
		if v, err = transform.Apply(ep.Model, ep.Transformers, v); err != nil {
			return g.fail(ctx, req, err)
		}
		model = v
	}

	// Only POST runs inside a transaction.
	if req.Method == http.MethodPost {
		tx, err := g.tx.Begin(ctx)
		if err != nil {
			return g.fail(ctx, req, fmt.Errorf("begin transaction: %w", err))
		}
		call.tx = tx
		defer func() {
			if err := tx.Close(context.WithoutCancel(ctx)); err != nil {
				g.log.Warn("transaction close failed", zap.String("endpoint", ep.Name), zap.Error(err))
			}
		}()
	}

	result, err := g.run(ctx, call, ep, payload, model)
	if err == nil && call.tx != nil {
		if cerr := call.tx.Commit(ctx); cerr != nil {
			err = fmt.Errorf("commit transaction: %w", cerr)
		}
	}
	if err != nil {
		if errors.Is(err, ErrAuthentication) {
			return respond(http.StatusInternalServerError, call.Message(), nil)
		}
		return g.fail(ctx, req, err)
	}
	return respond(http.StatusOK, call.Message(), result)
}

func (g *Gateway) run(ctx context.Context, call *Call, ep manifest.Endpoint, payload map[string]any, model any) (result any, err error) {
	h, ok := g.registry.Lookup(ep.Handler)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrHandlerNotFound, ep.Handler)
	}
	if ep.TimeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(ep.TimeoutMS)*time.Millisecond)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	if ep.Model != "" {
		return h.InvokeModel(ctx, call, model)
	}
	return h.InvokeKwargs(ctx, call, payload)
}

// fail is the catch-all path: record the error and answer 500 with its text.
func (g *Gateway) fail(ctx context.Context, req Request, err error) Envelope {
	detail := fmt.Sprintf("type=%s method=%s caller=%s error=%v", req.Type, req.Method, req.Caller, err)
	g.sink.Record(ctx, ErrorTitle, detail)
	g.log.Warn("gateway dispatch failed",
		zap.String("type", req.Type),
		zap.String("method", req.Method),
		zap.Stringer("caller", req.Caller),
		zap.Error(err),
	)
	return respond(http.StatusInternalServerError, err.Error(), nil)
}
