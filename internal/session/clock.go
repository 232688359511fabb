package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/clinic-portal-gateway/internal/backend"
	"github.com/spec-kit/clinic-portal-gateway/internal/config"
	"github.com/spec-kit/clinic-portal-gateway/internal/domain"
	"github.com/spec-kit/clinic-portal-gateway/internal/events"
	"github.com/spec-kit/clinic-portal-gateway/internal/token"
)

// Clock decides when the session token needs renewing and performs the
// renewal. The renewal window is a fixed absolute threshold on time left,
// never a fraction of the token's total lifetime.
type Clock struct {
	codec      *token.Codec
	backend    *backend.Client
	window     time.Duration
	lockTTL    time.Duration
	locker     Locker
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewClock builds the clock. locker and dispatcher may be nil.
func NewClock(codec *token.Codec, client *backend.Client, cfg config.SessionConfig, locker Locker, dispatcher events.Dispatcher, logger *zap.Logger) *Clock {
	return &Clock{
		codec:      codec,
		backend:    client,
		window:     cfg.RenewalWindow(),
		lockTTL:    cfg.RenewalLockTTL(),
		locker:     locker,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// IsExpiringSoon reports whether the stored token is inside the renewal
// window. An absent or undecodable token, or one without an exp claim,
// counts as expiring.
func (cl *Clock) IsExpiringSoon(store Store) bool {
	exp, ok := cl.codec.Decode(store.Token()).ExpirationTime()
	if !ok {
		return true
	}
	return time.Until(exp) <= cl.window
}

// Renew asks the backend for a fresh token and overwrites the stored one.
// Every failure mode is silent: logged, store untouched, and the next check
// simply tries again. A backend response carrying the unchanged token is an
// error condition, not a success.
func (cl *Clock) Renew(ctx context.Context, store Store) string {
	current := store.Token()
	if current == "" {
		return ""
	}

	if cl.locker != nil {
		key := "session:renew:" + cl.codec.UserID(current)
		if !cl.locker.TryLock(ctx, key, cl.lockTTL) {
			// a concurrent request or heartbeat tick is already renewing
			return ""
		}
	}

	renewed, err := cl.backend.RefreshToken(ctx, current)
	if err != nil {
		cl.logger.Warn("token renewal failed", zap.Error(err))
		return ""
	}
	if renewed == "" || renewed == current {
		cl.logger.Error("token renewal returned an unchanged token",
			zap.String("user_id", cl.codec.UserID(current)))
		return ""
	}

	store.SetToken(renewed)

	if cl.dispatcher != nil {
		role, _ := domain.ParseRole(cl.codec.Role(renewed))
		exp, _ := cl.codec.Decode(renewed).ExpirationTime()
		_ = cl.dispatcher.Publish(ctx, events.NewSessionEvent(
			events.EventSessionRenewed,
			cl.codec.UserID(renewed),
			role,
			events.SessionRenewedPayload{TimeLeft: time.Until(exp)},
		))
	}
	return renewed
}

// EnsureFresh renews the token when it is near expiry. A failed renewal
// never blocks whatever the caller does next; the stale token stays in
// place until the next check.
func (cl *Clock) EnsureFresh(ctx context.Context, store Store) {
	if cl.IsExpiringSoon(store) {
		cl.Renew(ctx, store)
	}
}
