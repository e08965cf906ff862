package auth

import (
	"net/http"

	"go.uber.org/zap"
)

// Middleware resolves the caller once per request and stores the user in the
// request context. It never answers the request itself: a credential that
// fails verification leaves the caller anonymous, and each gateway endpoint
// decides whether guests may proceed.
func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := m.authenticate(r); ok {
				r = r.WithContext(WithUser(r.Context(), u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// authenticate tries dev headers, then the assertion cookie, then the
// session API.
func (m *Middleware) authenticate(r *http.Request) (User, bool) {
	if m.devBypass {
		if u, ok := devUser(r); ok {
			return u, true
		}
	}
	if u, ok := m.assertionUser(r); ok {
		return u, true
	}
	return m.sessionUser(r)
}

func (m *Middleware) assertionUser(r *http.Request) (User, bool) {
	c, err := r.Cookie(m.assertCookieName)
	if err != nil || c.Value == "" || m.getKey() == nil {
		return User{}, false
	}
	u, err := m.validateAssertion(c.Value)
	if err != nil {
		m.rejected(r, "assertion", err)
		return User{}, false
	}
	return u, true
}

func (m *Middleware) sessionUser(r *http.Request) (User, bool) {
	if m.cookieName == "" {
		return User{}, false
	}
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return User{}, false
	}
	u, err := m.fetchSession(r.Context(), c)
	if err != nil {
		m.rejected(r, "session", err)
		return User{}, false
	}
	return u, true
}

func (m *Middleware) rejected(r *http.Request, source string, err error) {
	m.log.Info("credential rejected, continuing as guest",
		zap.String("source", source),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
}
