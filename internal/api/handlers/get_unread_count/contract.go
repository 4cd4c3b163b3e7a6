package get_unread_count

import (
	"context"

	"github.com/google/uuid"
)

type NotificationService interface {
	UnreadCount(ctx context.Context, callerID, targetID uuid.UUID) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
