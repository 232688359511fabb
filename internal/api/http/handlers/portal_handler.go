package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-portal-gateway/internal/api/dto"
	"github.com/spec-kit/clinic-portal-gateway/internal/gate"
	apperrors "github.com/spec-kit/clinic-portal-gateway/pkg/util"
)

// PortalHandler serves the portal shells: the public entry pages and one
// landing area per role. Real content comes from the clinic backend; these
// responses only tell the browser who it is and where it belongs.
type PortalHandler struct {
	serviceName string
}

// NewPortalHandler constructs handler.
func NewPortalHandler(serviceName string) *PortalHandler {
	return &PortalHandler{serviceName: serviceName}
}

// Landing handles GET / for signed-out visitors.
func (h *PortalHandler) Landing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": h.serviceName,
		"page":    "landing",
		"login":   "/login",
	})
}

// Login handles GET /login for signed-out visitors.
func (h *PortalHandler) Login(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": h.serviceName,
		"page":    "login",
	})
}

// Home serves the role-specific landing area. The gate has already placed
// the caller's claims in the request context.
func (h *PortalHandler) Home(c *fiber.Ctx) error {
	claims, ok := gate.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	return c.JSON(fiber.Map{
		"portal": claims.Role,
		"user": dto.SessionUser{
			ID:             claims.UserID,
			Name:           claims.DisplayName,
			Role:           claims.Role,
			EmailVerified:  claims.EmailVerified,
			ProfilePicture: claims.ProfilePicture,
		},
	})
}
