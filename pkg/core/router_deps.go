package core

import (
	"net/http"

	"github.com/joeydtaylor/steeze-gateway/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-gateway/pkg/middleware/logger"
	httpx "github.com/joeydtaylor/steeze-gateway/pkg/transport/httpx"
)

// DefaultPrefix is where the gateway route is mounted when none is configured.
const DefaultPrefix = "/api/v1"

type BuildDeps struct {
	Auth    *auth.Middleware // nil: every caller is anonymous
	LogMW   *logger.Middleware
	Metrics http.Handler
	Router  httpx.Router
	Gateway *Gateway
	Prefix  string
}
