package post_message

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/chat/models"
)

type ChatService interface {
	PostMessage(ctx context.Context, roomID, senderID uuid.UUID, req *models.PostMessageRequest) (*models.MessageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
