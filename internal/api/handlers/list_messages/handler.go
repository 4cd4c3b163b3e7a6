package list_messages

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/chat"
)

const (
	msgInvalidRoomID = "некорректный ID комнаты"
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidSince  = "некорректный параметр since, ожидается RFC3339"
	msgRoomNotFound  = "комната не найдена"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/chat-rooms/{roomId}/messages?since=RFC3339
// since не включается: клиент передаёт createdAt последнего полученного сообщения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := handlers.PathUUID(r, "roomId")
	if err != nil {
		h.logger.Warn("GET /chat-rooms/{id}/messages - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /chat-rooms/{id}/messages - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	since, err := handlers.QueryTime(r, "since")
	if err != nil {
		h.logger.Warn("GET /chat-rooms/{id}/messages - Invalid since: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSince)
		return
	}

	result, err := h.service.ListMessages(r.Context(), roomID, userID, since)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrRoomNotFound):
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, chat.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /chat-rooms/{id}/messages - Failed to list messages: room_id=%s, error=%v", roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
