package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	t.Run("zero value is anonymous", func(t *testing.T) {
		var id Identity
		assert.True(t, id.IsGuest())
		assert.Equal(t, Anonymous(), id)
		assert.Equal(t, "Guest", id.String())
		assert.Empty(t, id.ID())
	})

	t.Run("authenticated carries the user id", func(t *testing.T) {
		id := Authenticated("alice")
		assert.False(t, id.IsGuest())
		assert.Equal(t, KindAuthenticated, id.Kind())
		assert.Equal(t, "alice", id.ID())
		assert.Equal(t, "alice", id.String())
	})

	t.Run("blank id collapses to anonymous", func(t *testing.T) {
		assert.True(t, Authenticated("  ").IsGuest())
	})

	t.Run("a user literally named Guest is still authenticated", func(t *testing.T) {
		assert.False(t, Authenticated("Guest").IsGuest())
	})
}
