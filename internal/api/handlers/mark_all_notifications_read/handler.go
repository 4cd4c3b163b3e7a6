package mark_all_notifications_read

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

// Handle PUT /api/v1/notifications/{targetId}/read-all
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	targetID, err := handlers.PathUUID(r, "targetId")
	if err != nil {
		h.logger.Warn("PUT /notifications/{targetId}/read-all - Invalid target ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTargetID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /notifications/{targetId}/read-all - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.MarkAllRead(r.Context(), userID, targetID)
	if err != nil {
		if errors.Is(err, notifications.ErrAccessDenied) {
			h.logger.Warn("PUT /notifications/{targetId}/read-all - Access denied: target_id=%s, user_id=%s", targetID, userID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("PUT /notifications/{targetId}/read-all - Failed to mark all read: target_id=%s, error=%v", targetID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /notifications/{targetId}/read-all - Marked %d notifications: target_id=%s", result.Marked, targetID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
