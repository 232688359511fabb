package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/clinic-portal-gateway/internal/config"
	"github.com/spec-kit/clinic-portal-gateway/internal/session"
)

func TestCookieStore_ReadsRequestCookies(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		store := session.NewCookieStore(c, config.SessionConfig{})
		assert.Equal(t, "tok", store.Token())
		assert.Equal(t, "ref", store.RefreshToken())
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "tok"})
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "ref"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestCookieStore_SetTokenShadowsRequestCookie(t *testing.T) {
	// a token renewed mid-request must be visible to later reads in the
	// same exchange, even though the request header still holds the old one
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		store := session.NewCookieStore(c, config.SessionConfig{CookieSecure: true, CookieSameSite: "Strict"})
		store.SetToken("renewed")
		assert.Equal(t, "renewed", store.Token())
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "stale"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var jwtCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "jwt" {
			jwtCookie = cookie
		}
	}
	require.NotNil(t, jwtCookie)
	assert.Equal(t, "renewed", jwtCookie.Value)
	assert.Equal(t, "/", jwtCookie.Path)
	assert.True(t, jwtCookie.Secure)
}

func TestCookieStore_ClearExpiresBothCookies(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		store := session.NewCookieStore(c, config.SessionConfig{})
		store.Clear()
		assert.Equal(t, "", store.Token())
		assert.Equal(t, "", store.RefreshToken())
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "tok"})
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "ref"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	expired := 0
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "jwt" || cookie.Name == "refresh_token" {
			assert.True(t, cookie.Expires.Before(time.Now()))
			expired++
		}
	}
	assert.Equal(t, 2, expired)
}
