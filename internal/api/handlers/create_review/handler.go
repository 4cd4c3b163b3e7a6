package create_review

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/reviews"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/reviews/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные отзыва"
	msgBookingNotFound    = "бронирование не найдено"
	msgNotCompleted       = "отзыв можно оставить только по завершенному бронированию"
	msgAlreadyReviewed    = "отзыв на это бронирование уже оставлен"
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

// Handle POST /api/v1/reviews
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reviews - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateReviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reviews - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrInvalidInput):
			h.logger.Warn("POST /reviews - Invalid input: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, reviews.ErrBookingNotFound):
			h.logger.Warn("POST /reviews - Booking not found: booking_id=%s", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, reviews.ErrAccessDenied):
			h.logger.Warn("POST /reviews - Access denied: booking_id=%s, user_id=%s", req.BookingID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reviews.ErrBookingNotCompleted):
			h.logger.Warn("POST /reviews - Booking not completed: booking_id=%s", req.BookingID)
			handlers.RespondConflict(w, msgNotCompleted)

		case errors.Is(err, reviews.ErrAlreadyReviewed):
			h.logger.Warn("POST /reviews - Already reviewed: booking_id=%s", req.BookingID)
			handlers.RespondConflict(w, msgAlreadyReviewed)

		default:
			h.logger.Error("POST /reviews - Failed to create review: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reviews - Review created successfully: review_id=%s, shop_id=%s", result.ID, result.ShopID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
