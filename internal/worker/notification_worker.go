package worker

import (
	"go.uber.org/zap"

	"github.com/customer-care/ticket-api/internal/events"
	"github.com/customer-care/ticket-api/internal/service"
)

// StartNotificationWorker subscribes the notification handlers. Delivery is
// synchronous: handlers run inside the request that published the event.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
	if logger != nil {
		types := make([]string, 0, len(events.AllEventTypes))
		for _, t := range events.AllEventTypes {
			types = append(types, string(t))
		}
		logger.Info("notification handlers registered", zap.Strings("event_types", types))
	}
}
