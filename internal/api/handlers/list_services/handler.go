package list_services

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/catalog"
)

const (
	msgInvalidShopID = "некорректный ID магазина"
	msgShopNotFound  = "магазин не найден"
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

// Handle GET /api/v1/shops/{shopId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("GET /shops/{id}/services - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	result, err := h.service.List(r.Context(), shopID)
	if err != nil {
		if errors.Is(err, catalog.ErrShopNotFound) {
			h.logger.Warn("GET /shops/{id}/services - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)
			return
		}
		h.logger.Error("GET /shops/{id}/services - Failed to list services: shop_id=%s, error=%v", shopID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
