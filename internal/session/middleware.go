package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/clinic-portal-gateway/internal/backend"
	"github.com/spec-kit/clinic-portal-gateway/internal/config"
	"github.com/spec-kit/clinic-portal-gateway/internal/token"
)

// Tracker is the slice of the heartbeat manager the middleware needs. Stop
// takes the same session-linking identifier Track derives from the token.
type Tracker interface {
	Track(rawToken string)
	Stop(linkID string)
}

// Middleware runs on authenticated subtrees. Per request it renews the token
// when near expiry, enforces the backend's check-status verdict, and keeps
// the activity heartbeat tracking the caller's session.
type Middleware struct {
	codec    *token.Codec
	clock    *Clock
	teardown *Teardown
	backend  *backend.Client
	tracker  Tracker
	cache    StatusCache
	cacheTTL time.Duration
	cfg      config.SessionConfig
	logger   *zap.Logger
}

// MiddlewareDeps bundles collaborators for the session middleware.
type MiddlewareDeps struct {
	Codec    *token.Codec
	Clock    *Clock
	Teardown *Teardown
	Backend  *backend.Client
	Tracker  Tracker
	Cache    StatusCache
}

// NewMiddleware constructs the middleware. Tracker and Cache may be nil.
func NewMiddleware(deps MiddlewareDeps, cfg config.SessionConfig, logger *zap.Logger) *Middleware {
	return &Middleware{
		codec:    deps.Codec,
		clock:    deps.Clock,
		teardown: deps.Teardown,
		backend:  deps.Backend,
		tracker:  deps.Tracker,
		cache:    deps.Cache,
		cacheTTL: cfg.StatusCacheTTL(),
		cfg:      cfg,
		logger:   logger,
	}
}

// Handle processes one request on an authenticated subtree.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	store := NewCookieStore(c, m.cfg)
	if store.Token() == "" {
		return c.Next()
	}

	ctx := c.UserContext()
	m.clock.EnsureFresh(ctx, store)
	raw := store.Token()

	var userID, linkID string
	if claims := m.codec.Decode(raw); claims != nil {
		userID = claims.UserID
		linkID = claims.LinkID()
	}
	cacheKey := "session:status:" + userID
	if m.cache == nil || m.cacheTTL <= 0 || !m.cache.Valid(ctx, cacheKey) {
		status, err := m.backend.CheckStatus(ctx, raw)
		switch {
		case err != nil:
			// backend unreachable: leave the session alone until the next check
			m.logger.Warn("session status check failed", zap.Error(err))
		case status.ForceLogout:
			if m.tracker != nil {
				m.tracker.Stop(linkID)
			}
			m.teardown.ForceLogout(ctx, store, status.Message)
			return c.Redirect("/", fiber.StatusFound)
		default:
			if m.cache != nil && m.cacheTTL > 0 {
				m.cache.MarkValid(ctx, cacheKey, m.cacheTTL)
			}
		}
	}

	if m.tracker != nil {
		m.tracker.Track(raw)
	}
	return c.Next()
}
