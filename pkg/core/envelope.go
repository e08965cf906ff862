package core

import (
	"net/http"

	"github.com/joeydtaylor/steeze-gateway/pkg/identity"
)

const (
	MsgNotFound         = "Endpoint not found."
	MsgMethodNotAllowed = "Method not allowed."
	MsgGuestForbidden   = "Guest access not allowed for this endpoint."
	MsgInvalidPayload   = "Invalid request payload."
)

// Request is one inbound gateway call.
type Request struct {
	Method  string
	Type    string
	Payload map[string]any
	Caller  identity.Identity
}

// Envelope is the uniform response body.
type Envelope struct {
	Status  int    `json:"http_status_code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(status int, message string, data any) Envelope {
	if status == http.StatusInternalServerError {
		message = SanitizeMessage(message)
	}
	return Envelope{Status: status, Message: message, Data: data}
}
