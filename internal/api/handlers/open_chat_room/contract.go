package open_chat_room

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/chat/models"
)

type ChatService interface {
	OpenRoom(ctx context.Context, callerID uuid.UUID, req *models.OpenRoomRequest) (*models.RoomResponse, bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
