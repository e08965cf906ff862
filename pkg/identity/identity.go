// Package identity models the caller of a gateway request.
package identity

import "strings"

// Kind distinguishes anonymous callers from authenticated users.
type Kind int

const (
	KindAnonymous Kind = iota
	KindAuthenticated
)

// guestName is how anonymous callers render in logs and metrics.
const guestName = "Guest"

// Identity is either Anonymous or Authenticated(id). The zero value is Anonymous.
type Identity struct {
	kind Kind
	id   string
}

// Anonymous returns the guest identity.
func Anonymous() Identity { return Identity{} }

// Authenticated returns an identity for user id. A blank id yields Anonymous.
func Authenticated(id string) Identity {
	id = strings.TrimSpace(id)
	if id == "" {
		return Anonymous()
	}
	return Identity{kind: KindAuthenticated, id: id}
}

func (i Identity) Kind() Kind { return i.kind }

// IsGuest reports whether the caller is anonymous.
func (i Identity) IsGuest() bool { return i.kind == KindAnonymous }

// ID is the authenticated user id, empty for guests.
func (i Identity) ID() string { return i.id }

func (i Identity) String() string {
	if i.IsGuest() {
		return guestName
	}
	return i.id
}
