package metrics

import (
	"strconv"
	"time"
)

// Unresolved labels dispatches whose type matched no endpoint, so unknown
// names never become label values.
const Unresolved = "_unresolved"

// Observer records gateway dispatch outcomes.
type Observer struct{}

func NewObserver() *Observer { return &Observer{} }

func (*Observer) ObserveDispatch(endpoint string, status int, d time.Duration) {
	if endpoint == "" {
		endpoint = Unresolved
	}
	gatewayDispatchTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	gatewayHandlerSeconds.WithLabelValues(endpoint).Observe(d.Seconds())
}
