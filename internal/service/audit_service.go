package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/clinic-portal-gateway/internal/events"
	"github.com/spec-kit/clinic-portal-gateway/internal/observability"
)

// AuditService records session lifecycle events for operators: a structured
// log line per event plus the session counters.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (s *AuditService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventSessionRenewed, s.handle)
	s.dispatcher.Subscribe(events.EventSessionEnded, s.handle)
	s.dispatcher.Subscribe(events.EventSessionForcedLogout, s.handle)
	s.dispatcher.Subscribe(events.EventHeartbeatStarted, s.handle)
	s.dispatcher.Subscribe(events.EventHeartbeatStopped, s.handle)
}

func (s *AuditService) handle(_ context.Context, event events.Event) error {
	s.metrics.RecordSession(string(event.Type))
	s.logger.Info("session event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("user_id", event.UserID),
		zap.String("role", event.Role.String()),
		zap.Any("payload", event.Payload))
	return nil
}
