package mark_notification_read

import (
	"context"

	"github.com/google/uuid"
)

type NotificationService interface {
	MarkRead(ctx context.Context, callerID, notificationID uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
