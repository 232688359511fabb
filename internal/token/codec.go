package token

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/clinic-portal-gateway/internal/domain"
)

// Codec decodes backend-issued session tokens without verifying signatures.
// The backend is the sole authority on token validity; the gateway only reads
// the payload segment to decide routing and renewal timing. Claims obtained
// here are advisory, never a basis for granting access to backend data.
type Codec struct {
	parser *jwt.Parser
	now    func() time.Time
}

// NewCodec builds a codec using wall-clock time.
func NewCodec() *Codec {
	return &Codec{parser: jwt.NewParser(), now: time.Now}
}

// Decode parses the payload segment of a three-segment JWT. It never panics
// and never returns an error: any malformed input (empty string, wrong
// segment count, bad base64, bad JSON) yields nil claims.
func (c *Codec) Decode(raw string) *domain.SessionClaims {
	if raw == "" {
		return nil
	}
	claims := &domain.SessionClaims{}
	if _, _, err := c.parser.ParseUnverified(raw, claims); err != nil {
		return nil
	}
	return claims
}

// UserID returns the subject identifier claim, or "" when absent.
func (c *Codec) UserID(raw string) string {
	if claims := c.Decode(raw); claims != nil {
		return claims.UserID
	}
	return ""
}

// DisplayName returns the display-name claim, or "" when absent.
func (c *Codec) DisplayName(raw string) string {
	if claims := c.Decode(raw); claims != nil {
		return claims.DisplayName
	}
	return ""
}

// Role returns the raw role claim, or "" when absent. Callers map it onto
// the closed role set with domain.ParseRole.
func (c *Codec) Role(raw string) string {
	if claims := c.Decode(raw); claims != nil {
		return claims.Role
	}
	return ""
}

// EmailVerified returns the email-verified flag, or 0 when absent.
func (c *Codec) EmailVerified(raw string) int {
	if claims := c.Decode(raw); claims != nil {
		return claims.EmailVerified
	}
	return 0
}

// ProfilePicture returns the profile-picture path claim, or "" when absent.
func (c *Codec) ProfilePicture(raw string) string {
	if claims := c.Decode(raw); claims != nil {
		return claims.ProfilePicture
	}
	return ""
}

// CartID returns the cart/session-linking claim, or "" when absent.
func (c *Codec) CartID(raw string) string {
	if claims := c.Decode(raw); claims != nil {
		return claims.CartID
	}
	return ""
}

// ExpirationDate returns the exp claim as a time, reporting presence.
func (c *Codec) ExpirationDate(raw string) (time.Time, bool) {
	return c.Decode(raw).ExpirationTime()
}

// IsExpired reports whether the token is unusable: undecodable, missing its
// exp claim, or past expiry.
func (c *Codec) IsExpired(raw string) bool {
	claims := c.Decode(raw)
	if claims == nil {
		return true
	}
	return claims.Expired(c.now())
}

// Verify composes decode and expiry checks into a yes/no answer with a
// human-readable reason. It does not check the signature or issuer.
func (c *Codec) Verify(raw string) (bool, string) {
	claims := c.Decode(raw)
	if claims == nil {
		return false, "token missing or malformed"
	}
	if claims.Expired(c.now()) {
		return false, "token expired"
	}
	return true, "token valid"
}
