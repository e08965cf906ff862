package auth

import (
	"context"
	"crypto/rsa"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Middleware struct {
	httpClient HTTPDoer
	sessionAPI string
	cookieName string
	adminRole  string
	devBypass  bool
	log        *zap.Logger

	// Assertion verification
	assertCookieName string
	assertKeyURL     string
	assertKeyKID     string
	assertIssuer     string
	assertAudience   string
	assertLeeway     time.Duration

	// guarded by mu
	mu         sync.RWMutex
	assertKey  *rsa.PublicKey
	assertETag string
	cacheTTL   time.Duration
	lastFetch  time.Time

	stop     context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

// New builds a Middleware from s. A nil hc uses a pooled *http.Client.
func New(s Settings, hc HTTPDoer) *Middleware {
	if hc == nil {
		hc = defaultHTTPClient()
	}
	s = s.withDefaults()
	return &Middleware{
		httpClient:       hc,
		sessionAPI:       s.SessionAPI,
		cookieName:       s.SessionCookie,
		adminRole:        s.AdminRole,
		devBypass:        s.DevBypass,
		log:              zap.NewNop(),
		assertCookieName: s.AssertionCookie,
		assertKeyURL:     s.AssertionKeyURL,
		assertKeyKID:     s.AssertionKeyKID,
		assertIssuer:     s.AssertionIssuer,
		assertAudience:   s.AssertionAudience,
		assertLeeway:     s.AssertionLeeway,
		cacheTTL:         time.Hour, // overridable by Cache-Control
	}
}
