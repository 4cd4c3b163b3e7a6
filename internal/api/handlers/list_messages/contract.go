package list_messages

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/chat/models"
)

type ChatService interface {
	ListMessages(ctx context.Context, roomID, callerID uuid.UUID, since *time.Time) (*models.MessageListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
