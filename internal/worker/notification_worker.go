package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/barber-portal/internal/service"
)

// StartNotificationWorker wires the notification service into the event
// stream. Delivery is synchronous with publication, so there is no
// goroutine to manage here.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
	if logger != nil {
		logger.Info("notification handlers registered")
	}
}
