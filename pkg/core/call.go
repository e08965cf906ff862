package core

import (
	"github.com/joeydtaylor/steeze-gateway/pkg/identity"
	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

// Call is the per-dispatch state handed to a handler. It is never shared
// between requests.
type Call struct {
	method   string
	caller   identity.Identity
	endpoint manifest.Endpoint
	tx       Tx
	message  string
}

func newCall(req Request, ep manifest.Endpoint) *Call {
	return &Call{method: req.Method, caller: req.Caller, endpoint: ep}
}

func (c *Call) Method() string              { return c.method }
func (c *Call) Caller() identity.Identity   { return c.caller }
func (c *Call) Endpoint() manifest.Endpoint { return c.endpoint }

// Tx is the transaction opened for this call, nil unless the method is POST.
func (c *Call) Tx() Tx { return c.tx }

// SetMessage sets the envelope message used on success and on
// authentication failure.
func (c *Call) SetMessage(msg string) { c.message = msg }

func (c *Call) Message() string { return c.message }
