package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-portal-gateway/internal/api/http/handlers"
	"github.com/spec-kit/clinic-portal-gateway/internal/domain"
	"github.com/spec-kit/clinic-portal-gateway/internal/gate"
	"github.com/spec-kit/clinic-portal-gateway/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Portal  *handlers.PortalHandler
	Session *handlers.SessionHandler
	Gate    *gate.Gate
	Alive   *session.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// anonymous-only entry pages: authenticated roles get bounced home
	app.Get("/", cfg.Gate.AnonymousOnly(), cfg.Portal.Landing)
	app.Get("/login", cfg.Gate.AnonymousOnly(), cfg.Portal.Login)

	// one gated subtree per role, each kept alive by the session middleware
	roles := []domain.Role{domain.RoleCliente, domain.RoleDoctor, domain.RoleAdmin, domain.RoleSuperAdmin}
	for _, role := range roles {
		grp := app.Group(role.HomePath(), cfg.Gate.RequireRole(role), cfg.Alive.Handle)
		grp.Get("/", cfg.Portal.Home)
	}

	app.Get("/session/verify", cfg.Session.Verify)
	app.Get("/logout", cfg.Session.Logout)
	app.Post("/logout", cfg.Session.Logout)
}
