package list_shop_reviews

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/reviews/models"
)

type ReviewService interface {
	ListByShop(ctx context.Context, shopID uuid.UUID) (*models.ReviewListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
