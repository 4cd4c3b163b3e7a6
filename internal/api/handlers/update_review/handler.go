package update_review

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/reviews"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/reviews/models"
)

const (
	msgInvalidReviewID    = "некорректный ID отзыва"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные отзыва"
	msgReviewNotFound     = "отзыв не найден"
	msgForbidden          = "доступ запрещен"
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

// Handle PUT /api/v1/reviews/{reviewId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reviewID, err := handlers.PathUUID(r, "reviewId")
	if err != nil {
		h.logger.Warn("PUT /reviews/{id} - Invalid review ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReviewID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /reviews/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateReviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /reviews/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), callerID, reviewID, &req)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrInvalidInput):
			h.logger.Warn("PUT /reviews/{id} - Invalid input: review_id=%s, error=%v", reviewID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, reviews.ErrReviewNotFound):
			h.logger.Warn("PUT /reviews/{id} - Review not found: review_id=%s", reviewID)
			handlers.RespondNotFound(w, msgReviewNotFound)

		case errors.Is(err, reviews.ErrAccessDenied):
			h.logger.Warn("PUT /reviews/{id} - Access denied: review_id=%s, user_id=%s", reviewID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /reviews/{id} - Failed to update review: review_id=%s, error=%v", reviewID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /reviews/{id} - Review updated successfully: review_id=%s", reviewID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
