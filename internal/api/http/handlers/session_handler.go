package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/clinic-portal-gateway/internal/api/dto"
	"github.com/spec-kit/clinic-portal-gateway/internal/config"
	"github.com/spec-kit/clinic-portal-gateway/internal/domain"
	"github.com/spec-kit/clinic-portal-gateway/internal/session"
	"github.com/spec-kit/clinic-portal-gateway/internal/token"
)

// SessionHandler exposes logout and session introspection.
type SessionHandler struct {
	codec    *token.Codec
	teardown *session.Teardown
	tracker  session.Tracker
	cfg      config.SessionConfig
	logger   *zap.Logger
}

// NewSessionHandler constructs handler. tracker may be nil.
func NewSessionHandler(codec *token.Codec, teardown *session.Teardown, tracker session.Tracker, cfg config.SessionConfig, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{codec: codec, teardown: teardown, tracker: tracker, cfg: cfg, logger: logger}
}

// Logout handles GET/POST /logout. When a decodable session is present both
// cookies are cleared and the browser is sent to the public entry point.
// Without one, nothing happens: no cookies are touched and no navigation is
// issued.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	store := session.NewCookieStore(c, h.cfg)
	linkID := ""
	if claims := h.codec.Decode(store.Token()); claims != nil {
		linkID = claims.LinkID()
	}

	if !h.teardown.Logout(c.UserContext(), store) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if h.tracker != nil && linkID != "" {
		h.tracker.Stop(linkID)
	}
	return c.Redirect("/", fiber.StatusFound)
}

// Verify handles GET /session/verify: an advisory decode-and-expiry check
// the browser can poll. No signature or issuer check happens here.
func (h *SessionHandler) Verify(c *fiber.Ctx) error {
	valid, message := h.codec.Verify(c.Cookies(domain.CookieNameJWT))
	return c.JSON(dto.SessionVerdict{Valid: valid, Message: message})
}
