package core

import (
	"net/http"

	"github.com/joeydtaylor/steeze-gateway/pkg/codec"
)

// writeEnvelope sends env with its status as the HTTP status.
func writeEnvelope(w http.ResponseWriter, env Envelope) {
	payload, err := codec.JSONStrict.Marshal(env)
	if err != nil {
		env = respond(http.StatusInternalServerError, "response encode: "+err.Error(), nil)
		payload, _ = codec.JSONStrict.Marshal(env)
	}
	writeJSON(w, payload, statusIf(env.Status, http.StatusOK))
}

func writeJSON(w http.ResponseWriter, payload []byte, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if len(payload) > 0 {
		_, _ = w.Write(payload)
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

func statusIf(s, def int) int {
	if s > 0 {
		return s
	}
	return def
}
