package delete_review

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/reviews"
)

const (
	msgInvalidReviewID = "некорректный ID отзыва"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgReviewNotFound  = "отзыв не найден"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/reviews/{reviewId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reviewID, err := handlers.PathUUID(r, "reviewId")
	if err != nil {
		h.logger.Warn("DELETE /reviews/{id} - Invalid review ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReviewID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /reviews/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), callerID, reviewID); err != nil {
		switch {
		case errors.Is(err, reviews.ErrReviewNotFound):
			h.logger.Warn("DELETE /reviews/{id} - Review not found: review_id=%s", reviewID)
			handlers.RespondNotFound(w, msgReviewNotFound)

		case errors.Is(err, reviews.ErrAccessDenied):
			h.logger.Warn("DELETE /reviews/{id} - Access denied: review_id=%s, user_id=%s", reviewID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /reviews/{id} - Failed to delete review: review_id=%s, error=%v", reviewID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /reviews/{id} - Review deleted successfully: review_id=%s", reviewID)
	w.WriteHeader(http.StatusNoContent)
}
