package mark_all_notifications_read

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/notifications/models"
)

type NotificationService interface {
	MarkAllRead(ctx context.Context, callerID, targetID uuid.UUID) (*models.MarkAllReadResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
