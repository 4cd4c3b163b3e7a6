package update_shop

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/shops/models"
)

type ShopService interface {
	Update(ctx context.Context, callerID, shopID uuid.UUID, req *models.ShopRequest) (*models.ShopResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
