package create_service

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/catalog/models"
)

type CatalogService interface {
	Add(ctx context.Context, callerID, shopID uuid.UUID, req *models.ServiceRequest) (*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
