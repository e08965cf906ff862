package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// NewPromHttpHandler returns the /metrics handler.
func NewPromHttpHandler() http.Handler { return promhttp.Handler() }

// Handler is the /metrics endpoint as provided through fx.
type Handler http.Handler

func ProvideMetrics() Handler { return NewPromHttpHandler() }

var Module = fx.Options(
	fx.Provide(ProvideMetrics),
	fx.Provide(NewObserver),
)
