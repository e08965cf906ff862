package core

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"sync"
)

// Kwargs is a request payload bound to a handler's declared parameters.
type Kwargs map[string]any

func (k Kwargs) Raw() map[string]any { return k }

func (k Kwargs) Has(key string) bool {
	_, ok := k[key]
	return ok
}

// String returns the value for key if it is a string.
func (k Kwargs) String(key string) string {
	s, _ := k[key].(string)
	return s
}

// Int returns the value for key if it is a number with an integral value
// that fits in an int. Anything else yields 0.
func (k Kwargs) Int(key string) int {
	switch v := k[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return intFromFloat(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return intFromFloat(f)
	}
	return 0
}

// Float returns the value for key if it is a number.
func (k Kwargs) Float(key string) float64 {
	switch v := k[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

func intFromFloat(f float64) int {
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int(f)
}

func (k Kwargs) Bool(key string) bool {
	b, _ := k[key].(bool)
	return b
}

// Params declares the payload keys a kwargs handler accepts.
type Params struct {
	Required []string
	Optional []string
}

// Bind checks payload against p: every required key must be present and no
// undeclared key may appear.
func (p Params) Bind(payload map[string]any) (Kwargs, error) {
	for _, k := range p.Required {
		if _, ok := payload[k]; !ok {
			return nil, fmt.Errorf("%w: missing required argument %q", ErrArguments, k)
		}
	}
	var unexpected []string
	for k := range payload {
		if !slices.Contains(p.Required, k) && !slices.Contains(p.Optional, k) {
			unexpected = append(unexpected, k)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return nil, fmt.Errorf("%w: unexpected keyword argument %q", ErrArguments, unexpected[0])
	}
	out := make(Kwargs, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out, nil
}

type (
	// KwargsFunc receives the payload as named arguments.
	KwargsFunc func(ctx context.Context, call *Call, args Kwargs) (any, error)
	// ModelFunc receives the single value built from the endpoint's model.
	ModelFunc[T any] func(ctx context.Context, call *Call, in T) (any, error)
)

// Handler is a registered, invocable handler. Exactly one of the kwargs or
// model forms is set.
type Handler struct {
	name   string
	params Params
	model  reflect.Type
	kwargs KwargsFunc
	typed  func(ctx context.Context, call *Call, in any) (any, error)
}

func (h Handler) Name() string { return h.name }

// TakesModel reports whether h expects a constructed model value.
func (h Handler) TakesModel() bool { return h.typed != nil }

// InvokeKwargs binds payload to the declared params and calls h.
func (h Handler) InvokeKwargs(ctx context.Context, call *Call, payload map[string]any) (any, error) {
	if h.kwargs == nil {
		return nil, fmt.Errorf("%w: handler %q expects a %s model, got keyword arguments", ErrArguments, h.name, h.model)
	}
	args, err := h.params.Bind(payload)
	if err != nil {
		return nil, fmt.Errorf("%s(): %w", h.name, err)
	}
	return h.kwargs(ctx, call, args)
}

// InvokeModel calls h with a single model value.
func (h Handler) InvokeModel(ctx context.Context, call *Call, in any) (any, error) {
	if h.typed == nil {
		return nil, fmt.Errorf("%w: handler %q takes keyword arguments, got a model value", ErrArguments, h.name)
	}
	return h.typed(ctx, call, in)
}

// Registry maps handler references from endpoint records to Go functions.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

// DefaultRegistry backs the package-level Register helpers.
var DefaultRegistry = NewRegistry()

func (r *Registry) add(h Handler) error {
	if h.name == "" {
		return fmt.Errorf("handler name required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.handlers[h.name]; dup {
		return fmt.Errorf("handler %q already registered", h.name)
	}
	r.handlers[h.name] = h
	return nil
}

// Register adds a kwargs handler under name.
func (r *Registry) Register(name string, p Params, fn KwargsFunc) error {
	if fn == nil {
		return fmt.Errorf("handler %q: nil function", name)
	}
	return r.add(Handler{name: name, params: p, kwargs: fn})
}

func (r *Registry) MustRegister(name string, p Params, fn KwargsFunc) {
	if err := r.Register(name, p, fn); err != nil {
		panic(err)
	}
}

// RegisterModel adds a handler that receives a single value of type T.
func RegisterModel[T any](r *Registry, name string, fn ModelFunc[T]) error {
	if fn == nil {
		return fmt.Errorf("handler %q: nil function", name)
	}
	var zero T
	want := reflect.TypeOf(&zero).Elem()
	return r.add(Handler{
		name:  name,
		model: want,
		typed: func(ctx context.Context, call *Call, in any) (any, error) {
			v, ok := in.(T)
			if !ok {
				return nil, fmt.Errorf("%w: handler %q expects %s, got %T", ErrArguments, name, want, in)
			}
			return fn(ctx, call, v)
		},
	})
}

func MustRegisterModel[T any](r *Registry, name string, fn ModelFunc[T]) {
	if err := RegisterModel(r, name, fn); err != nil {
		panic(err)
	}
}

// Lookup retrieves a registered handler by name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Names lists registered handlers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Register makes a kwargs handler available to DefaultRegistry under a name
// referenced by endpoint records. It panics on duplicates.
func Register(name string, p Params, fn KwargsFunc) {
	DefaultRegistry.MustRegister(name, p, fn)
}

// Lookup retrieves a handler from DefaultRegistry.
func Lookup(name string) (Handler, bool) {
	return DefaultRegistry.Lookup(name)
}
