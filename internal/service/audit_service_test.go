package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/clinic-portal-gateway/internal/domain"
	"github.com/spec-kit/clinic-portal-gateway/internal/events"
	"github.com/spec-kit/clinic-portal-gateway/internal/observability"
	"github.com/spec-kit/clinic-portal-gateway/internal/service"
)

func TestAuditService_CountsSessionEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	service.NewAuditService(dispatcher, zap.NewNop(), metrics).RegisterHandlers()

	ctx := context.Background()
	_ = dispatcher.Publish(ctx, events.NewSessionEvent(events.EventSessionRenewed, "u-1", domain.RoleCliente, nil))
	_ = dispatcher.Publish(ctx, events.NewSessionEvent(events.EventSessionRenewed, "u-2", domain.RoleDoctor, nil))
	_ = dispatcher.Publish(ctx, events.NewSessionEvent(events.EventSessionForcedLogout, "u-1", domain.RoleCliente,
		events.SessionForcedLogoutPayload{Message: "revoked"}))

	assert.Equal(t, int64(2), metrics.SessionCount(string(events.EventSessionRenewed)))
	assert.Equal(t, int64(1), metrics.SessionCount(string(events.EventSessionForcedLogout)))
	assert.Equal(t, int64(0), metrics.SessionCount(string(events.EventSessionEnded)))
}
