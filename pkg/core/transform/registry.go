// Package transform holds named value transforms applied to endpoint models
// after they are decoded and before the handler runs.
package transform

import (
	"fmt"
	"reflect"
	"sync"
)

// Transformer runs on concrete T.
type Transformer[T any] func(T) (T, error)

var (
	mu  sync.RWMutex
	reg = map[string]map[string]any{} // model -> name -> Transformer[T] (stored as any)
)

// Register binds a named transformer for a specific model namespace.
func Register[T any](model, name string, fn Transformer[T]) {
	if model == "" || name == "" || fn == nil {
		panic("transform: model, name, fn required")
	}
	mu.Lock()
	defer mu.Unlock()
	m, ok := reg[model]
	if !ok {
		m = make(map[string]any)
		reg[model] = m
	}
	if _, dup := m[name]; dup {
		panic("transform: duplicate " + model + "/" + name)
	}
	m[name] = fn
}

// Has reports whether name is registered for model.
func Has(model, name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := reg[model][name]
	return ok
}

// Resolve returns the concrete transformers for T in the order requested.
func Resolve[T any](model string, names []string) ([]Transformer[T], error) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := reg[model]
	if !ok {
		return nil, fmt.Errorf("transform: no registry for %q", model)
	}
	out := make([]Transformer[T], 0, len(names))
	for _, n := range names {
		raw, ok := m[n]
		if !ok {
			return nil, fmt.Errorf("transform: %q not found in %q", n, model)
		}
		fn, ok := raw.(Transformer[T])
		if !ok {
			return nil, fmt.Errorf("transform: type mismatch for %q in %q", n, model)
		}
		out = append(out, fn)
	}
	return out, nil
}

// Apply runs the named transformers in order on v, which must be the exact
// T (not *T) each was registered with. An empty names list returns v.
func Apply(model string, names []string, v any) (any, error) {
	if len(names) == 0 {
		return v, nil
	}
	mu.RLock()
	defer mu.RUnlock()
	m, ok := reg[model]
	if !ok {
		return nil, fmt.Errorf("transform: no registry for %q", model)
	}
	cur := v
	for _, n := range names {
		raw, ok := m[n]
		if !ok {
			return nil, fmt.Errorf("transform: %q not found in %q", n, model)
		}
		fn := reflect.ValueOf(raw)
		in := reflect.ValueOf(cur)
		if !in.IsValid() || in.Type() != fn.Type().In(0) {
			return nil, fmt.Errorf("transform: type mismatch for %q/%q", model, n)
		}
		out := fn.Call([]reflect.Value{in})
		if !out[1].IsNil() {
			return nil, fmt.Errorf("transform %q: %w", n, out[1].Interface().(error))
		}
		cur = out[0].Interface()
	}
	return cur, nil
}
