package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeydtaylor/steeze-gateway/pkg/core"
	"github.com/joeydtaylor/steeze-gateway/pkg/identity"
	"github.com/joeydtaylor/steeze-gateway/pkg/store"
)

func TestShippedManifestMatchesHandlers(t *testing.T) {
	m, err := core.LoadManifest("../../manifest.toml")
	require.NoError(t, err)
	assert.Empty(t, core.CheckEndpoints(m.Endpoints, core.DefaultRegistry))
}

func TestHandlers_ThroughGateway(t *testing.T) {
	m, err := core.LoadManifest("../../manifest.toml")
	require.NoError(t, err)
	gw := core.NewGateway(store.NewManifest(m))
	ctx := context.Background()

	env := gw.Dispatch(ctx, core.Request{Method: "GET", Type: "greet", Caller: identity.Anonymous()})
	assert.Equal(t, 200, env.Status)
	assert.Equal(t, "hello Guest", env.Data)

	env = gw.Dispatch(ctx, core.Request{
		Method:  "POST",
		Type:    "create_note",
		Payload: map[string]any{"title": "  groceries ", "body": "milk"},
		Caller:  identity.Authenticated("ann"),
	})
	require.Equal(t, 200, env.Status, env.Message)
	assert.Equal(t, "Note created.", env.Message)
	assert.Equal(t, Note{Title: "groceries", Body: "milk"}, env.Data)

	env = gw.Dispatch(ctx, core.Request{
		Method:  "POST",
		Type:    "create_note",
		Payload: map[string]any{"body": "no title"},
		Caller:  identity.Authenticated("ann"),
	})
	assert.Equal(t, 500, env.Status)
	assert.Contains(t, env.Message, "title is required")
}
