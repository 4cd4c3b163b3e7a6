package create_service

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/catalog"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/catalog/models"
)

const (
	msgInvalidShopID      = "некорректный ID магазина"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные услуги"
	msgShopNotFound       = "магазин не найден"
	msgForbidden          = "доступ запрещен"
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

// Handle POST /api/v1/shops/{shopId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("POST /shops/{id}/services - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /shops/{id}/services - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.ServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shops/{id}/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Add(r.Context(), callerID, shopID, &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("POST /shops/{id}/services - Invalid input: shop_id=%s, error=%v", shopID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, catalog.ErrShopNotFound):
			h.logger.Warn("POST /shops/{id}/services - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, catalog.ErrAccessDenied):
			h.logger.Warn("POST /shops/{id}/services - Access denied: shop_id=%s, user_id=%s", shopID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /shops/{id}/services - Failed to add service: shop_id=%s, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shops/{id}/services - Service created successfully: shop_id=%s, service_id=%s", shopID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
