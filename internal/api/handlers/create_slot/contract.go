package create_slot

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/slots/models"
)

type SlotService interface {
	Add(ctx context.Context, callerID, shopID uuid.UUID, req *models.SlotRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
