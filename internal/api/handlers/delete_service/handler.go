package delete_service

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/catalog"
)

const (
	msgInvalidShopID    = "некорректный ID магазина"
	msgInvalidServiceID = "некорректный ID услуги"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgServiceInUse     = "на услугу есть активные бронирования"
	msgShopNotFound     = "магазин не найден"
	msgServiceNotFound  = "услуга не найдена"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/shops/{shopId}/services/{serviceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("DELETE /shops/{id}/services/{serviceId} - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	serviceID, err := handlers.PathUUID(r, "serviceId")
	if err != nil {
		h.logger.Warn("DELETE /shops/{id}/services/{serviceId} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /shops/{id}/services/{serviceId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), callerID, shopID, serviceID); err != nil {
		switch {
		case errors.Is(err, catalog.ErrServiceInUse):
			h.logger.Warn("DELETE /shops/{id}/services/{serviceId} - Service in use: service_id=%s", serviceID)
			handlers.RespondConflict(w, msgServiceInUse)

		case errors.Is(err, catalog.ErrShopNotFound):
			h.logger.Warn("DELETE /shops/{id}/services/{serviceId} - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, catalog.ErrServiceNotFound):
			h.logger.Warn("DELETE /shops/{id}/services/{serviceId} - Service not found: service_id=%s", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, catalog.ErrAccessDenied):
			h.logger.Warn("DELETE /shops/{id}/services/{serviceId} - Access denied: shop_id=%s, user_id=%s", shopID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /shops/{id}/services/{serviceId} - Failed to delete service: service_id=%s, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /shops/{id}/services/{serviceId} - Service deleted successfully: service_id=%s", serviceID)
	w.WriteHeader(http.StatusNoContent)
}
