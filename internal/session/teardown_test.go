package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/clinic-portal-gateway/internal/session"
	"github.com/spec-kit/clinic-portal-gateway/internal/token"
)

func TestLogout_ClearsDecodableSession(t *testing.T) {
	teardown := session.NewTeardown(token.NewCodec(), nil, zap.NewNop())

	raw := mintToken(t, map[string]any{"idUsuario": "u-1", "rol": "cliente", "exp": time.Now().Add(time.Hour).Unix()})
	store := session.NewMemoryStore(raw, "refresh-abc")

	assert.True(t, teardown.Logout(context.Background(), store))
	assert.Equal(t, "", store.Token())
	assert.Equal(t, "", store.RefreshToken())
}

func TestLogout_MissingTokenIsNoOp(t *testing.T) {
	teardown := session.NewTeardown(token.NewCodec(), nil, zap.NewNop())

	store := session.NewMemoryStore("", "refresh-abc")
	assert.False(t, teardown.Logout(context.Background(), store))
	assert.Equal(t, "refresh-abc", store.RefreshToken(), "no-op logout must not touch cookies")
}

func TestLogout_UndecodableTokenIsNoOp(t *testing.T) {
	teardown := session.NewTeardown(token.NewCodec(), nil, zap.NewNop())

	store := session.NewMemoryStore("corrupted-cookie", "refresh-abc")
	assert.False(t, teardown.Logout(context.Background(), store))
	assert.Equal(t, "corrupted-cookie", store.Token(), "corrupted token stays in place")
}

func TestForceLogout_ClearsEvenUndecodableSession(t *testing.T) {
	teardown := session.NewTeardown(token.NewCodec(), nil, zap.NewNop())

	store := session.NewMemoryStore("corrupted-cookie", "refresh-abc")
	teardown.ForceLogout(context.Background(), store, "session revoked")
	assert.Equal(t, "", store.Token())
	assert.Equal(t, "", store.RefreshToken())
}
