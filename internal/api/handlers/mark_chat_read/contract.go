package mark_chat_read

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/chat/models"
)

type ChatService interface {
	MarkRead(ctx context.Context, roomID, callerID uuid.UUID) (*models.MarkReadResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
