package worker

import (
	"github.com/spec-kit/clinic-portal-gateway/internal/service"
)

// StartAuditWorker registers session audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
