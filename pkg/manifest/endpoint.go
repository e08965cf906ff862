package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// Endpoint is one API Gateway record: a named operation exposed through the
// single dispatch route. Records are read-only once loaded.
type Endpoint struct {
	Name         string   `toml:"name" json:"name"`
	Method       string   `toml:"method" json:"method"`
	Methods      []string `toml:"methods" json:"methods,omitempty"`
	Handler      string   `toml:"handler" json:"handler"`
	AllowGuest   bool     `toml:"allow_guest" json:"allow_guest"`
	Model        string   `toml:"model" json:"model,omitempty"`
	Transformers []string `toml:"transformers" json:"transformers,omitempty"`
	TimeoutMS    int      `toml:"timeout_ms" json:"timeout_ms,omitempty"`
	Description  string   `toml:"description" json:"description,omitempty"`
}

// AllowedMethods returns Method ∪ Methods, upper-cased, first occurrence order.
func (e Endpoint) AllowedMethods() []string {
	out := make([]string, 0, 1+len(e.Methods))
	seen := make(map[string]struct{}, 1+len(e.Methods))
	add := func(m string) {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" {
			return
		}
		if _, dup := seen[m]; dup {
			return
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	add(e.Method)
	for _, m := range e.Methods {
		add(m)
	}
	return out
}

// Allows reports whether method is in the endpoint's allowed set.
func (e Endpoint) Allows(method string) bool {
	method = strings.ToUpper(strings.TrimSpace(method))
	for _, m := range e.AllowedMethods() {
		if m == method {
			return true
		}
	}
	return false
}

// Normalized returns a copy with names trimmed and methods upper-cased. The
// receiver's slices are not modified.
func (e Endpoint) Normalized() Endpoint {
	e.Name = strings.TrimSpace(e.Name)
	e.Handler = strings.TrimSpace(e.Handler)
	e.Model = strings.TrimSpace(e.Model)
	e.Method = strings.ToUpper(strings.TrimSpace(e.Method))
	if e.Methods != nil {
		ms := make([]string, len(e.Methods))
		for i, m := range e.Methods {
			ms[i] = strings.ToUpper(strings.TrimSpace(m))
		}
		e.Methods = ms
	}
	if e.Transformers != nil {
		ts := make([]string, len(e.Transformers))
		for i, t := range e.Transformers {
			ts[i] = strings.TrimSpace(t)
		}
		e.Transformers = ts
	}
	return e
}

// Normalize is Normalized applied in place.
func (e *Endpoint) Normalize() { *e = e.Normalized() }

// Validate checks fields that are independent of the handler/model registries.
func (e Endpoint) Validate() error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	if e.Handler == "" {
		return errors.New("handler is required")
	}
	methods := e.AllowedMethods()
	if len(methods) == 0 {
		return errors.New("method is required")
	}
	for _, m := range methods {
		if !IsSupportedMethod(m) {
			return fmt.Errorf("method %q not supported", m)
		}
	}
	if e.TimeoutMS < 0 {
		return errors.New("timeout_ms must be >= 0")
	}
	if len(e.Transformers) > 0 && e.Model == "" {
		return errors.New("transformers specified but model is empty")
	}
	for _, t := range e.Transformers {
		if t == "" {
			return errors.New("transformer names must not be empty")
		}
	}
	return nil
}
