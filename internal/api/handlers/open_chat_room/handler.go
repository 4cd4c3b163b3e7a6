package open_chat_room

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/chat"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/chat/models"
)

const (
	msgMissingUserID        = "отсутствует ID пользователя"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidInput         = "не указан ID бронирования"
	msgParticipantsMismatch = "магазин или клиент не совпадают с бронированием"
	msgBookingNotFound      = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
)

type Handler struct {
	service ChatService
	logger  Logger
}

func NewHandler(service ChatService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/chat-rooms
// 201 при создании комнаты, 200 если комната уже была
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /chat-rooms - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.OpenRoomRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /chat-rooms - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	room, created, err := h.service.OpenRoom(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrInvalidInput):
			h.logger.Warn("POST /chat-rooms - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, chat.ErrParticipantsMismatch):
			h.logger.Warn("POST /chat-rooms - Participants mismatch: booking_id=%s", req.BookingID)
			handlers.RespondBadRequest(w, msgParticipantsMismatch)

		case errors.Is(err, chat.ErrBookingNotFound):
			h.logger.Warn("POST /chat-rooms - Booking not found: booking_id=%s", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, chat.ErrAccessDenied):
			h.logger.Warn("POST /chat-rooms - Access denied: booking_id=%s, user_id=%s", req.BookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /chat-rooms - Failed to open room: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	handlers.RespondJSON(w, status, room)
}
