package update_review

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/service/reviews/models"
)

type ReviewService interface {
	Update(ctx context.Context, callerID, reviewID uuid.UUID, req *models.UpdateReviewRequest) (*models.ReviewResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
