package list_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/slots"
)

const (
	msgInvalidShopID = "некорректный ID магазина"
	msgShopNotFound  = "магазин не найден"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/slots
// Слоты упорядочены по времени начала
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("GET /shops/{id}/slots - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	result, err := h.service.List(r.Context(), shopID)
	if err != nil {
		if errors.Is(err, slots.ErrShopNotFound) {
			h.logger.Warn("GET /shops/{id}/slots - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)
			return
		}
		h.logger.Error("GET /shops/{id}/slots - Failed to list slots: shop_id=%s, error=%v", shopID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
