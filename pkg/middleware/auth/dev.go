package auth

import "net/http"

// Headers read when dev bypass is enabled. Never enable it in production.
const (
	DevUserHeader     = "X-Dev-User"
	DevRoleHeader     = "X-Dev-Role"
	DevProviderHeader = "X-Dev-Provider"
)

func devUser(r *http.Request) (User, bool) {
	name := r.Header.Get(DevUserHeader)
	if name == "" {
		return User{}, false
	}
	provider := r.Header.Get(DevProviderHeader)
	if provider == "" {
		provider = "dev"
	}
	return User{
		Username:             name,
		AuthenticationSource: AuthenticationSource{Provider: provider},
		Role:                 Role{Name: r.Header.Get(DevRoleHeader)},
	}, true
}
