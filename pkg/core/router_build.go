package core

import (
	"net/http"
	"strings"

	chimd "github.com/go-chi/chi/v5/middleware"

	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
	hmetrics "github.com/joeydtaylor/steeze-gateway/pkg/middleware/metrics"
)

// BuildRouter mounts the gateway on <prefix> and <prefix>/{type} for every
// supported method, plus /metrics and /ping.
func BuildRouter(d BuildDeps) http.Handler {
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(d.Auth))
		}
		// metrics collector that references auth state without copying it
		r.Use(hmetrics.Collect(d.Auth))
	} else {
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(nil))
		}
		r.Use(hmetrics.Collect(nil))
	}

	if d.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", d.Metrics)
	}

	prefix := strings.TrimRight(d.Prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	h := gatewayHandler(d)
	for _, m := range manifest.SupportedMethods() {
		r.Handle(m, prefix, h)
		r.Handle(m, prefix+"/{type}", h)
	}
	return r.Mux()
}
