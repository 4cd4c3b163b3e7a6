package get_unread_count

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/notifications"
)

const (
	msgInvalidTargetID = "некорректный ID получателя"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "доступ запрещен"
)

// UnreadCountResponse HTTP response model
type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/notifications/{targetId}/unread-count
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	targetID, err := handlers.PathUUID(r, "targetId")
	if err != nil {
		h.logger.Warn("GET /notifications/{targetId}/unread-count - Invalid target ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTargetID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /notifications/{targetId}/unread-count - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID, targetID)
	if err != nil {
		if errors.Is(err, notifications.ErrAccessDenied) {
			h.logger.Warn("GET /notifications/{targetId}/unread-count - Access denied: target_id=%s, user_id=%s", targetID, userID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("GET /notifications/{targetId}/unread-count - Failed to count: target_id=%s, error=%v", targetID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, UnreadCountResponse{UnreadCount: count})
}
