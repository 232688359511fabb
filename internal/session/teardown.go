package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/clinic-portal-gateway/internal/domain"
	"github.com/spec-kit/clinic-portal-gateway/internal/events"
	"github.com/spec-kit/clinic-portal-gateway/internal/token"
)

// Teardown ends sessions: it clears both session cookies so the browser
// returns to the public entry point on its next navigation.
type Teardown struct {
	codec      *token.Codec
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTeardown builds the teardown helper. dispatcher may be nil.
func NewTeardown(codec *token.Codec, dispatcher events.Dispatcher, logger *zap.Logger) *Teardown {
	return &Teardown{codec: codec, dispatcher: dispatcher, logger: logger}
}

// Logout clears the jwt and refresh_token cookies when a decodable token is
// present, reporting whether it acted. A missing or undecodable token leaves
// the store untouched and reports false; callers skip navigation in that
// case. Kept from the portal's original behavior, where logout was a no-op
// without a readable session.
func (t *Teardown) Logout(ctx context.Context, store Store) bool {
	raw := store.Token()
	if raw == "" {
		return false
	}
	claims := t.codec.Decode(raw)
	if claims == nil {
		return false
	}

	store.Clear()

	role, _ := domain.ParseRole(claims.Role)
	t.logger.Info("session ended",
		zap.String("user_id", claims.UserID),
		zap.String("role", claims.Role))
	if t.dispatcher != nil {
		_ = t.dispatcher.Publish(ctx, events.NewSessionEvent(
			events.EventSessionEnded, claims.UserID, role, nil))
	}
	return true
}

// ForceLogout clears the cookies unconditionally in response to a backend
// force-logout signal. Unlike Logout, an undecodable token does not spare
// the cookies: the backend has already declared the session invalid.
func (t *Teardown) ForceLogout(ctx context.Context, store Store, message string) {
	raw := store.Token()
	claims := t.codec.Decode(raw)

	store.Clear()

	userID := ""
	role := domain.Role("")
	if claims != nil {
		userID = claims.UserID
		role, _ = domain.ParseRole(claims.Role)
	}
	t.logger.Warn("session terminated by backend",
		zap.String("user_id", userID),
		zap.String("message", message))
	if t.dispatcher != nil {
		_ = t.dispatcher.Publish(ctx, events.NewSessionEvent(
			events.EventSessionForcedLogout, userID, role,
			events.SessionForcedLogoutPayload{Message: message}))
	}
}
