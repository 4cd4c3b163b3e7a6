package list_shop_reviews

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/reviews"
)

const (
	msgInvalidShopID = "некорректный ID магазина"
	msgShopNotFound  = "магазин не найден"
)

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/reviews
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("GET /shops/{id}/reviews - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	result, err := h.service.ListByShop(r.Context(), shopID)
	if err != nil {
		if errors.Is(err, reviews.ErrShopNotFound) {
			h.logger.Warn("GET /shops/{id}/reviews - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)
			return
		}
		h.logger.Error("GET /shops/{id}/reviews - Failed to list reviews: shop_id=%s, error=%v", shopID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
