package core

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/joeydtaylor/steeze-gateway/pkg/codec"
)

// Validator is implemented by models that check themselves after decoding.
type Validator interface {
	Validate() error
}

type typeBinding struct {
	name  string
	typ   reflect.Type
	build func(payload map[string]any) (any, error)
}

var (
	typesMu sync.RWMutex
	typeReg = map[string]typeBinding{}
)

// RegisterType binds a concrete type to a symbolic model name. Payloads are
// decoded into T with c.
func RegisterType[T any](name string, c codec.Codec) error {
	if name == "" || c == nil {
		return fmt.Errorf("type name and codec required")
	}
	var zero T
	b := typeBinding{
		name: name,
		typ:  reflect.TypeOf(&zero).Elem(),
		build: func(payload map[string]any) (any, error) {
			var v T
			if err := codec.FromMap(c, payload, &v); err != nil {
				return nil, fmt.Errorf("model %q: %w", name, err)
			}
			if err := validateModel(&v); err != nil {
				return nil, fmt.Errorf("model %q: %w", name, err)
			}
			return v, nil
		},
	}

	typesMu.Lock()
	defer typesMu.Unlock()
	if _, ok := typeReg[name]; ok {
		return fmt.Errorf("type %q already registered", name)
	}
	typeReg[name] = b
	return nil
}

func MustRegisterType[T any](name string, c codec.Codec) {
	if err := RegisterType[T](name, c); err != nil {
		panic(err)
	}
}

// validateModel runs Validate on the value or its pointer, whichever
// implements Validator.
func validateModel[T any](p *T) error {
	if v, ok := any(*p).(Validator); ok {
		return v.Validate()
	}
	if v, ok := any(p).(Validator); ok {
		return v.Validate()
	}
	return nil
}

func getTypeBinding(name string) (typeBinding, bool) {
	typesMu.RLock()
	defer typesMu.RUnlock()
	b, ok := typeReg[name]
	return b, ok
}

// BuildModel constructs the registered model from payload. The returned
// value is a T, not a *T.
func BuildModel(name string, payload map[string]any) (any, error) {
	b, ok := getTypeBinding(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModelNotRegistered, name)
	}
	return b.build(payload)
}

// ModelType reports the Go type registered under name.
func ModelType(name string) (reflect.Type, bool) {
	b, ok := getTypeBinding(name)
	return b.typ, ok
}

// RegisteredTypes lists model names in sorted order.
func RegisteredTypes() []string {
	typesMu.RLock()
	defer typesMu.RUnlock()
	out := make([]string, 0, len(typeReg))
	for n := range typeReg {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
