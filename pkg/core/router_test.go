package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	manifest "github.com/joeydtaylor/steeze-gateway/pkg/manifest"
	"github.com/joeydtaylor/steeze-gateway/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-gateway/pkg/middleware/logger"
	httpx "github.com/joeydtaylor/steeze-gateway/pkg/transport/httpx"
)

func newTestServer(t *testing.T) (*httptest.Server, *harness) {
	t.Helper()
	h := newHarness(t,
		pingEndpoint(),
		manifest.Endpoint{Name: "greet", Methods: []string{"GET", "POST"}, Handler: "greet"},
	)
	handler := BuildRouter(BuildDeps{
		Auth:    auth.New(auth.Settings{DevBypass: true}, nil),
		LogMW:   logger.New(nil),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
		Router:  httpx.NewChi(),
		Gateway: h.gw,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, h
}

func do(t *testing.T, method, target, body, user string) (int, map[string]any, *http.Response) {
	t.Helper()
	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-Dev-User", user)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var env map[string]any
	if strings.HasPrefix(res.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	}
	return res.StatusCode, env, res
}

func TestRouter_GatewayRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("type from path", func(t *testing.T) {
		code, env, _ := do(t, http.MethodGet, srv.URL+"/api/v1/ping", "", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, map[string]any{"http_status_code": 200.0, "message": "", "data": "pong"}, env)
	})

	t.Run("type from query", func(t *testing.T) {
		code, env, _ := do(t, http.MethodGet, srv.URL+"/api/v1?type=ping", "", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "pong", env["data"])
	})

	t.Run("type and data from body", func(t *testing.T) {
		code, env, _ := do(t, http.MethodPost, srv.URL+"/api/v1", `{"type":"greet","data":{"name":"ann"},"extra":1}`, "ann")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "hello ann", env["data"])
	})

	t.Run("data from query", func(t *testing.T) {
		q := url.Values{"data": {`{"name":"bo","greeting":"hey"}`}}
		code, env, _ := do(t, http.MethodGet, srv.URL+"/api/v1/greet?"+q.Encode(), "", "bo")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "hey bo", env["data"])
	})

	t.Run("guest on private endpoint", func(t *testing.T) {
		code, env, _ := do(t, http.MethodGet, srv.URL+"/api/v1/greet", "", "")
		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, MsgGuestForbidden, env["message"])
	})

	t.Run("unknown endpoint omits data", func(t *testing.T) {
		code, env, res := do(t, http.MethodDelete, srv.URL+"/api/v1/nope", "", "")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
		assert.Equal(t, map[string]any{"http_status_code": 404.0, "message": MsgNotFound}, env)
	})

	t.Run("wrong method", func(t *testing.T) {
		code, env, _ := do(t, http.MethodPut, srv.URL+"/api/v1/ping", "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, code)
		assert.Equal(t, MsgMethodNotAllowed, env["message"])
	})

	t.Run("handler argument error", func(t *testing.T) {
		code, env, _ := do(t, http.MethodPost, srv.URL+"/api/v1/greet", `{"data":{"nom":"x"}}`, "x")
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Contains(t, env["message"], "missing required argument")
	})
}

func TestRouter_BadPayload(t *testing.T) {
	srv, h := newTestServer(t)
	for name, body := range map[string]string{
		"malformed json":  `{"type":`,
		"data not object": `{"type":"ping","data":[1,2]}`,
		"type not string": `{"type":7}`,
	} {
		t.Run(name, func(t *testing.T) {
			code, env, _ := do(t, http.MethodPost, srv.URL+"/api/v1", body, "u")
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, MsgInvalidPayload, env["message"])
		})
	}
	assert.Empty(t, h.sink.entries)
}

func TestRouter_Ambient(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/api/v1/ping", nil)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestDecodeRequest_Precedence(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/v1?type=from_query&data=%7B%22q%22%3A1%7D", strings.NewReader(`{"type":"from_body","data":{"b":2}}`))
	req, err := decodeRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "from_query", req.Type)
	assert.Equal(t, map[string]any{"b": json.Number("2")}, req.Payload)

	r = httptest.NewRequest(http.MethodGet, "/api/v1?data=null", nil)
	req, err = decodeRequest(r)
	require.NoError(t, err)
	assert.Nil(t, req.Payload)
	assert.Equal(t, "", req.Type)
}

func TestDecodeRequest_NumbersKeepPrecision(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/v1", strings.NewReader(`{"type":"x","data":{"id":9007199254740993,"ratio":1.5}}`))
	req, err := decodeRequest(r)
	require.NoError(t, err)

	args := Kwargs(req.Payload)
	assert.Equal(t, 9007199254740993, args.Int("id"))
	assert.Equal(t, 0, args.Int("ratio"))
	assert.Equal(t, 1.5, args.Float("ratio"))

	r = httptest.NewRequest(http.MethodGet, "/api/v1?data=%7B%22a%22%3A1%7D%20%7B%7D", nil)
	_, err = decodeRequest(r)
	assert.ErrorIs(t, err, errBadPayload, "trailing value after the data object")
}
