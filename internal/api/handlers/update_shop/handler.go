package update_shop

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/shops"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/shops/models"
)

const (
	msgInvalidShopID      = "некорректный ID магазина"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные магазина"
	msgNotFound           = "магазин не найден"
	msgForbidden          = "доступ запрещен"
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

// Handle PUT /api/v1/shops/{shopId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("PUT /shops/{id} - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /shops/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.ShopRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /shops/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), callerID, shopID, &req)
	if err != nil {
		switch {
		case errors.Is(err, shops.ErrInvalidInput):
			h.logger.Warn("PUT /shops/{id} - Invalid input: shop_id=%s, error=%v", shopID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, shops.ErrShopNotFound):
			h.logger.Warn("PUT /shops/{id} - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, shops.ErrAccessDenied):
			h.logger.Warn("PUT /shops/{id} - Access denied: shop_id=%s, user_id=%s", shopID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /shops/{id} - Failed to update shop: shop_id=%s, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /shops/{id} - Shop updated successfully: shop_id=%s", shopID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
