package get_shop

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/shops"
)

const (
	msgInvalidShopID = "некорректный ID магазина"
	msgNotFound      = "магазин не найден"
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

// Handle GET /api/v1/shops/{shopId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("GET /shops/{id} - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	result, err := h.service.GetByID(r.Context(), shopID)
	if err != nil {
		if errors.Is(err, shops.ErrShopNotFound) {
			h.logger.Warn("GET /shops/{id} - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /shops/{id} - Failed to get shop: shop_id=%s, error=%v", shopID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
