package domain

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Cookie names the backend and the portal agreed on.
const (
	CookieNameJWT     = "jwt"
	CookieNameRefresh = "refresh_token"
)

// SessionClaims is the advisory payload of a backend-issued session token.
// Every field is optional from the portal's point of view; the signature is
// never verified here, so nothing in this struct may be treated as trusted.
type SessionClaims struct {
	UserID         string `json:"idUsuario,omitempty"`
	DisplayName    string `json:"nombres,omitempty"`
	Role           string `json:"rol,omitempty"`
	EmailVerified  int    `json:"emailVerified,omitempty"`
	ProfilePicture string `json:"perfil,omitempty"`
	CartID         string `json:"idCarrito,omitempty"`
	jwt.RegisteredClaims
}

// ExpirationTime returns the exp claim, reporting whether it was present.
func (c *SessionClaims) ExpirationTime() (time.Time, bool) {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}

// Expired reports whether the token is past its exp claim. A missing exp
// counts as expired.
func (c *SessionClaims) Expired(now time.Time) bool {
	exp, ok := c.ExpirationTime()
	if !ok {
		return true
	}
	return exp.Before(now)
}

// LinkID returns the claim the activity endpoint keys sessions on: the
// cart/session-linking identifier when present, else the subject id.
func (c *SessionClaims) LinkID() string {
	if c == nil {
		return ""
	}
	if c.CartID != "" {
		return c.CartID
	}
	return c.UserID
}
