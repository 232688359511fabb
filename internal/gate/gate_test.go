package gate_test

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/clinic-portal-gateway/internal/domain"
	"github.com/spec-kit/clinic-portal-gateway/internal/gate"
	"github.com/spec-kit/clinic-portal-gateway/internal/token"
)

func mintToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".signature"
}

func newGateApp() *fiber.App {
	g := gate.New(token.NewCodec())

	app := fiber.New()
	app.Get("/", g.AnonymousOnly(), func(c *fiber.Ctx) error {
		return c.SendString("landing")
	})
	app.Get("/login", g.AnonymousOnly(), func(c *fiber.Ctx) error {
		return c.SendString("login form")
	})
	for _, role := range []domain.Role{domain.RoleCliente, domain.RoleDoctor, domain.RoleAdmin, domain.RoleSuperAdmin} {
		role := role
		app.Get(role.HomePath(), g.RequireRole(role), func(c *fiber.Ctx) error {
			claims, ok := gate.ClaimsFromContext(c)
			if !ok {
				return c.SendStatus(http.StatusInternalServerError)
			}
			return c.SendString("home of " + claims.Role)
		})
	}
	return app
}

func get(t *testing.T, app *fiber.App, path, jwt string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if jwt != "" {
		req.AddCookie(&http.Cookie{Name: "jwt", Value: jwt})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAnonymousOnly_RedirectsEachRoleHome(t *testing.T) {
	app := newGateApp()

	expected := map[string]string{
		"cliente":    "/cliente",
		"doctor":     "/doctor",
		"admin":      "/admin",
		"superadmin": "/superAdmin",
	}
	for role, home := range expected {
		raw := mintToken(t, map[string]any{"rol": role, "exp": time.Now().Add(time.Hour).Unix()})
		resp := get(t, app, "/login", raw)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode, role)
		assert.Equal(t, home, resp.Header.Get("Location"), role)
	}
}

func TestAnonymousOnly_UnrecognizedRoleFallsThrough(t *testing.T) {
	// the original portal's role switch had no default case: an unknown role
	// neither redirects nor blocks, so the public page renders
	app := newGateApp()

	raw := mintToken(t, map[string]any{"rol": "ghost", "exp": time.Now().Add(time.Hour).Unix()})
	resp := get(t, app, "/login", raw)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "login form", string(body))
}

func TestAnonymousOnly_NoTokenRendersPublicPage(t *testing.T) {
	app := newGateApp()

	resp := get(t, app, "/", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "landing", string(body))
}

func TestRequireRole_NoTokenRedirectsToRoot(t *testing.T) {
	app := newGateApp()

	resp := get(t, app, "/doctor", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestRequireRole_UndecodableTokenRedirectsToRoot(t *testing.T) {
	app := newGateApp()

	resp := get(t, app, "/admin", "not-a-jwt")
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestRequireRole_WrongRoleRedirectsToItsOwnHome(t *testing.T) {
	app := newGateApp()

	raw := mintToken(t, map[string]any{"rol": "cliente", "exp": time.Now().Add(time.Hour).Unix()})
	resp := get(t, app, "/doctor", raw)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/cliente", resp.Header.Get("Location"))
}

func TestRequireRole_MatchingRoleRenders(t *testing.T) {
	app := newGateApp()

	raw := mintToken(t, map[string]any{"idUsuario": "u-5", "rol": "superadmin", "exp": time.Now().Add(time.Hour).Unix()})
	resp := get(t, app, "/superAdmin", raw)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "home of superadmin", string(body))
}

func TestScenario_DoctorTokenOnLoginPage(t *testing.T) {
	// doctor token, exp ten minutes out, landing on the anonymous-only login
	// page: redirect to /doctor and the login content never renders
	app := newGateApp()

	raw := mintToken(t, map[string]any{"rol": "doctor", "exp": time.Now().Add(10 * time.Minute).Unix()})
	resp := get(t, app, "/login", raw)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/doctor", resp.Header.Get("Location"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "login form")
}
