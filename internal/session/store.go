package session

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-portal-gateway/internal/config"
	"github.com/spec-kit/clinic-portal-gateway/internal/domain"
)

// Store abstracts where a session's cookies live, so the lifecycle logic can
// run against the caller's real cookie jar during a request or against a
// runner-local copy inside the heartbeat loop.
type Store interface {
	// Token returns the current access token, or "" when absent.
	Token() string
	// SetToken replaces the access token in place.
	SetToken(token string)
	// RefreshToken returns the refresh token, or "" when absent.
	RefreshToken() string
	// Clear removes both tokens.
	Clear()
}

// CookieStore reads and writes the jwt and refresh_token cookies of a single
// request/response exchange. Writes within the exchange shadow the request
// cookie, so a token renewed mid-request is visible to later reads.
type CookieStore struct {
	ctx      *fiber.Ctx
	cfg      config.SessionConfig
	override string
	cleared  bool
}

// NewCookieStore binds a store to the request context.
func NewCookieStore(c *fiber.Ctx, cfg config.SessionConfig) *CookieStore {
	return &CookieStore{ctx: c, cfg: cfg}
}

// Token returns the access token for this exchange.
func (s *CookieStore) Token() string {
	if s.cleared {
		return ""
	}
	if s.override != "" {
		return s.override
	}
	return s.ctx.Cookies(domain.CookieNameJWT)
}

// SetToken overwrites the jwt cookie with a renewed value.
func (s *CookieStore) SetToken(token string) {
	s.override = token
	s.cleared = false
	s.write(domain.CookieNameJWT, token)
}

// RefreshToken returns the refresh token for this exchange.
func (s *CookieStore) RefreshToken() string {
	if s.cleared {
		return ""
	}
	return s.ctx.Cookies(domain.CookieNameRefresh)
}

// Clear expires both session cookies by setting an epoch-past expiry.
func (s *CookieStore) Clear() {
	s.cleared = true
	s.override = ""
	s.expire(domain.CookieNameJWT)
	s.expire(domain.CookieNameRefresh)
}

func (s *CookieStore) write(name, value string) {
	s.ctx.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Secure:   s.cfg.CookieSecure,
		SameSite: s.cfg.CookieSameSite,
	})
}

func (s *CookieStore) expire(name string) {
	s.ctx.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   s.cfg.CookieSecure,
		SameSite: s.cfg.CookieSameSite,
	})
}

// MemoryStore holds tokens in process memory. The heartbeat runner uses it
// as its private view of the session between requests; tests use it to avoid
// a fiber context.
type MemoryStore struct {
	mu      sync.Mutex
	token   string
	refresh string
}

// NewMemoryStore seeds a store with the given tokens.
func NewMemoryStore(token, refresh string) *MemoryStore {
	return &MemoryStore{token: token, refresh: refresh}
}

// Token returns the stored access token.
func (s *MemoryStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken replaces the stored access token.
func (s *MemoryStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// RefreshToken returns the stored refresh token.
func (s *MemoryStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

// Clear drops both tokens.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.refresh = ""
}
