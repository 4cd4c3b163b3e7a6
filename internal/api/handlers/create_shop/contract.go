package create_shop

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/shops/models"
)

type ShopService interface {
	Create(ctx context.Context, callerID uuid.UUID, req *models.ShopRequest) (*models.ShopResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
