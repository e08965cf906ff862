package core

import (
	"net/http"

	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
)

// Validate applies the endpoint guards in order: existence, method, guest
// access. The first failure yields the envelope to send and ok=false.
func Validate(ep manifest.Endpoint, found bool, req Request) (Envelope, bool) {
	if !found {
		return respond(http.StatusNotFound, MsgNotFound, nil), false
	}
	if !ep.Allows(req.Method) {
		return respond(http.StatusMethodNotAllowed, MsgMethodNotAllowed, nil), false
	}
	if !ep.AllowGuest && req.Caller.IsGuest() {
		return respond(http.StatusForbidden, MsgGuestForbidden, nil), false
	}
	return Envelope{}, true
}
