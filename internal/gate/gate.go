package gate

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-portal-gateway/internal/domain"
	"github.com/spec-kit/clinic-portal-gateway/internal/token"
)

const claimsKey = "session_claims"

// Gate routes browsers to the portal area matching their role claim. The
// decision is advisory, like the unverified claims it is based on; the
// backend re-checks authorization on every data call. Decisions are
// re-evaluated on every request, never cached.
type Gate struct {
	codec *token.Codec
}

// New builds a gate over the given codec.
func New(codec *token.Codec) *Gate {
	return &Gate{codec: codec}
}

// AnonymousOnly wraps pages meant for signed-out visitors, such as the
// landing and login pages. A recognized authenticated role is sent to its
// home path. An unrecognized role value falls through to the public page,
// kept from the portal's original behavior where the role switch had no
// default case.
func (g *Gate) AnonymousOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := g.codec.Decode(c.Cookies(domain.CookieNameJWT))
		if claims == nil {
			return c.Next()
		}
		role, ok := domain.ParseRole(claims.Role)
		if !ok {
			return c.Next()
		}
		return c.Redirect(role.HomePath(), fiber.StatusFound)
	}
}

// RequireRole wraps the subtree owned by a single role. Visitors without a
// decodable token go to the public entry point; a different recognized role
// goes to its own home path. An unrecognized role value is treated the same
// as an undecodable token here, since the subtree cannot place it anywhere.
func (g *Gate) RequireRole(expected domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := g.codec.Decode(c.Cookies(domain.CookieNameJWT))
		if claims == nil {
			return c.Redirect("/", fiber.StatusFound)
		}
		role, ok := domain.ParseRole(claims.Role)
		if !ok {
			return c.Redirect("/", fiber.StatusFound)
		}
		if role != expected {
			return c.Redirect(role.HomePath(), fiber.StatusFound)
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// ClaimsFromContext retrieves the session claims stashed by RequireRole.
func ClaimsFromContext(c *fiber.Ctx) (*domain.SessionClaims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*domain.SessionClaims)
	return claims, ok
}
