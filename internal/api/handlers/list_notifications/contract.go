package list_notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/notifications/models"
)

type NotificationService interface {
	ListFor(ctx context.Context, callerID, targetID uuid.UUID) (*models.NotificationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
