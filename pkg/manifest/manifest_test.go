package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint_AllowedMethods(t *testing.T) {
	t.Run("single method becomes a one-element set", func(t *testing.T) {
		ep := Endpoint{Method: "get"}
		assert.Equal(t, []string{"GET"}, ep.AllowedMethods())
	})

	t.Run("method and methods are merged without duplicates", func(t *testing.T) {
		ep := Endpoint{Method: "POST", Methods: []string{"get", "post", " PUT "}}
		assert.Equal(t, []string{"POST", "GET", "PUT"}, ep.AllowedMethods())
	})

	t.Run("allows compares case-insensitively", func(t *testing.T) {
		ep := Endpoint{Method: "GET"}
		assert.True(t, ep.Allows("get"))
		assert.False(t, ep.Allows("POST"))
	})
}

func TestEndpoint_Validate(t *testing.T) {
	valid := func() Endpoint {
		return Endpoint{Name: "ping", Method: "GET", Handler: "echo"}
	}

	cases := []struct {
		name    string
		mutate  func(*Endpoint)
		wantErr string
	}{
		{"valid", func(*Endpoint) {}, ""},
		{"missing name", func(e *Endpoint) { e.Name = "" }, "name is required"},
		{"missing handler", func(e *Endpoint) { e.Handler = "" }, "handler is required"},
		{"missing method", func(e *Endpoint) { e.Method = "" }, "method is required"},
		{"unsupported method", func(e *Endpoint) { e.Method = "PATCH" }, `method "PATCH" not supported`},
		{"negative timeout", func(e *Endpoint) { e.TimeoutMS = -1 }, "timeout_ms"},
		{"transformers without model", func(e *Endpoint) { e.Transformers = []string{"trim"} }, "model is empty"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ep := valid()
			tc.mutate(&ep)
			err := ep.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("empty manifest", func(t *testing.T) {
		c := Config{}
		assert.EqualError(t, c.Validate(), "no endpoints defined")
	})

	t.Run("normalizes endpoints", func(t *testing.T) {
		c := Config{Endpoints: []Endpoint{{Name: " ping ", Method: "get", Handler: " echo "}}}
		require.NoError(t, c.Validate())
		assert.Equal(t, "ping", c.Endpoints[0].Name)
		assert.Equal(t, "GET", c.Endpoints[0].Method)
		assert.Equal(t, "echo", c.Endpoints[0].Handler)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		c := Config{Endpoints: []Endpoint{
			{Name: "ping", Method: "GET", Handler: "echo"},
			{Name: "ping", Method: "POST", Handler: "echo"},
		}}
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already defined")
	})

	t.Run("index keys by name", func(t *testing.T) {
		c := Config{Endpoints: []Endpoint{
			{Name: "a", Method: "GET", Handler: "h"},
			{Name: "b", Method: "POST", Handler: "h"},
		}}
		require.NoError(t, c.Validate())
		idx := c.Index()
		assert.Len(t, idx, 2)
		assert.Equal(t, "POST", idx["b"].Method)
	})
}

func TestEndpoint_NormalizedDoesNotAlias(t *testing.T) {
	methods := []string{" get "}
	ep := Endpoint{Name: "x", Methods: methods, Handler: "h"}
	n := ep.Normalized()
	assert.Equal(t, []string{"GET"}, n.Methods)
	assert.Equal(t, " get ", methods[0])
}
