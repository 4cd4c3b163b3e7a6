package post_message

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/chat"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/chat/models"
)

const (
	msgInvalidRoomID      = "некорректный ID комнаты"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidContent     = "сообщение пустое или слишком длинное"
	msgRoomNotFound       = "комната не найдена"
	msgForbidden          = "доступ запрещен"
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

// Handle POST /api/v1/chat-rooms/{roomId}/messages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := handlers.PathUUID(r, "roomId")
	if err != nil {
		h.logger.Warn("POST /chat-rooms/{id}/messages - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /chat-rooms/{id}/messages - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.PostMessageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /chat-rooms/{id}/messages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.PostMessage(r.Context(), roomID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrInvalidContent):
			handlers.RespondBadRequest(w, msgInvalidContent)

		case errors.Is(err, chat.ErrRoomNotFound):
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, chat.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /chat-rooms/{id}/messages - Failed to post message: room_id=%s, error=%v", roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}
