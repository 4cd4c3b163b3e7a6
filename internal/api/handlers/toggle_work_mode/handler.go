package toggle_work_mode

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/shops"
)

const (
	msgInvalidShopID = "некорректный ID магазина"
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "магазин не найден"
	msgForbidden     = "доступ запрещен"
)

type Handler struct {
	service ShopService
	logger  Logger
}

func NewHandler(service ShopService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/shops/{shopId}/work-mode
// Возвращает новое состояние режима работы
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("PATCH /shops/{id}/work-mode - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /shops/{id}/work-mode - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ToggleWorkMode(r.Context(), callerID, shopID)
	if err != nil {
		switch {
		case errors.Is(err, shops.ErrShopNotFound):
			h.logger.Warn("PATCH /shops/{id}/work-mode - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, shops.ErrAccessDenied):
			h.logger.Warn("PATCH /shops/{id}/work-mode - Access denied: shop_id=%s, user_id=%s", shopID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PATCH /shops/{id}/work-mode - Failed to toggle work mode: shop_id=%s, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /shops/{id}/work-mode - Work mode toggled: shop_id=%s, work_mode_on=%t", shopID, result.WorkModeOn)
	handlers.RespondJSON(w, http.StatusOK, result)
}
