package mark_notification_read

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/notifications"
)

const (
	msgInvalidNotificationID = "некорректный ID уведомления"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgNotFound              = "уведомление не найдено"
	msgForbidden             = "доступ запрещен"
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

// Handle PUT /api/v1/notifications/{notificationId}/read
// Повторная пометка возвращает 204
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	notificationID, err := handlers.PathUUID(r, "notificationId")
	if err != nil {
		h.logger.Warn("PUT /notifications/{id}/read - Invalid notification ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidNotificationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /notifications/{id}/read - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, notificationID); err != nil {
		switch {
		case errors.Is(err, notifications.ErrNotificationNotFound):
			h.logger.Warn("PUT /notifications/{id}/read - Notification not found: notification_id=%s", notificationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, notifications.ErrAccessDenied):
			h.logger.Warn("PUT /notifications/{id}/read - Access denied: notification_id=%s, user_id=%s", notificationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /notifications/{id}/read - Failed to mark read: notification_id=%s, error=%v", notificationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
