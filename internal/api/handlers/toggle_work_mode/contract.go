package toggle_work_mode

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/shops/models"
)

type ShopService interface {
	ToggleWorkMode(ctx context.Context, callerID, shopID uuid.UUID) (*models.WorkModeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
