package core

import (
	"fmt"

	"github.com/joeydtaylor/steeze-gateway/pkg/core/transform"
	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

// CheckEndpoints reports endpoints whose handler, model or transformers are
// not registered, or whose handler form does not match the model setting.
// Records fetched from remote stores can change at runtime, so callers log
// these rather than refuse to start.
func CheckEndpoints(eps []manifest.Endpoint, reg *Registry) []error {
	if reg == nil {
		reg = DefaultRegistry
	}
	var errs []error
	for _, ep := range eps {
		ep = ep.Normalized()
		h, ok := reg.Lookup(ep.Handler)
		if !ok {
			errs = append(errs, fmt.Errorf("endpoint %q: %w: %q", ep.Name, ErrHandlerNotFound, ep.Handler))
			continue
		}
		if ep.Model == "" {
			if h.TakesModel() {
				errs = append(errs, fmt.Errorf("endpoint %q: handler %q expects a model", ep.Name, ep.Handler))
			}
			continue
		}
		typ, ok := ModelType(ep.Model)
		if !ok {
			errs = append(errs, fmt.Errorf("endpoint %q: %w: %q", ep.Name, ErrModelNotRegistered, ep.Model))
			continue
		}
		if !h.TakesModel() {
			errs = append(errs, fmt.Errorf("endpoint %q: handler %q takes keyword arguments but model %q is set", ep.Name, ep.Handler, ep.Model))
		} else if h.model != typ {
			errs = append(errs, fmt.Errorf("endpoint %q: handler %q expects %s, model %q is %s", ep.Name, ep.Handler, h.model, ep.Model, typ))
		}
		for _, t := range ep.Transformers {
			if !transform.Has(ep.Model, t) {
				errs = append(errs, fmt.Errorf("endpoint %q: transformer %q not registered for %q", ep.Name, t, ep.Model))
			}
		}
	}
	return errs
}
