package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/joeydtaylor/steeze-gateway/pkg/identity"
	httpx "github.com/joeydtaylor/steeze-gateway/pkg/transport/httpx"
)

// maxBodyBytes bounds gateway request bodies.
const maxBodyBytes = 1 << 20

var errBadPayload = errors.New("bad payload")

type gatewayBody struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func gatewayHandler(d BuildDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest(r)
		if err != nil {
			writeEnvelope(w, respond(http.StatusBadRequest, MsgInvalidPayload, nil))
			return
		}
		req.Caller = identity.Anonymous()
		if d.Auth != nil {
			req.Caller = d.Auth.Identity(r.Context())
		}
		writeEnvelope(w, d.Gateway.Dispatch(r.Context(), req))
	}
}

// decodeRequest extracts type and data. type comes from the path, then the
// query, then the body; data from the body, then the query.
func decodeRequest(r *http.Request) (Request, error) {
	req := Request{Method: r.Method}

	var body gatewayBody
	if r.Body != nil {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
		if err != nil {
			return req, fmt.Errorf("%w: %v", errBadPayload, err)
		}
		if len(raw) > maxBodyBytes {
			return req, fmt.Errorf("%w: body too large", errBadPayload)
		}
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				return req, fmt.Errorf("%w: %v", errBadPayload, err)
			}
		}
	}

	q := r.URL.Query()
	req.Type = firstNonBlank(httpx.Param(r, "type"), q.Get("type"), body.Type)

	data := body.Data
	if isAbsent(data) {
		if s := strings.TrimSpace(q.Get("data")); s != "" {
			data = json.RawMessage(s)
		}
	}
	if !isAbsent(data) {
		payload, err := decodeData(data)
		if err != nil {
			return req, fmt.Errorf("%w: data must be an object: %v", errBadPayload, err)
		}
		req.Payload = payload
	}
	return req, nil
}

// decodeData keeps numbers as json.Number so large integers survive intact.
func decodeData(data json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after object")
	}
	return payload, nil
}

func isAbsent(raw json.RawMessage) bool {
	s := bytes.TrimSpace(raw)
	return len(s) == 0 || bytes.Equal(s, []byte("null"))
}

func firstNonBlank(ss ...string) string {
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
