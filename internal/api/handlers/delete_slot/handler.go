package delete_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/slots"
)

const (
	msgInvalidShopID = "некорректный ID магазина"
	msgInvalidSlotID = "некорректный ID слота"
	msgMissingUserID = "отсутствует ID пользователя"
	msgSlotInUse     = "на слот есть активные бронирования"
	msgShopNotFound  = "магазин не найден"
	msgSlotNotFound  = "слот не найден"
	msgForbidden     = "доступ запрещен"
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

// Handle DELETE /api/v1/shops/{shopId}/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("DELETE /shops/{id}/slots/{slotId} - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	slotID, err := handlers.PathUUID(r, "slotId")
	if err != nil {
		h.logger.Warn("DELETE /shops/{id}/slots/{slotId} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /shops/{id}/slots/{slotId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), callerID, shopID, slotID); err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotInUse):
			h.logger.Warn("DELETE /shops/{id}/slots/{slotId} - Slot in use: slot_id=%s", slotID)
			handlers.RespondConflict(w, msgSlotInUse)

		case errors.Is(err, slots.ErrShopNotFound):
			h.logger.Warn("DELETE /shops/{id}/slots/{slotId} - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("DELETE /shops/{id}/slots/{slotId} - Slot not found: slot_id=%s", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("DELETE /shops/{id}/slots/{slotId} - Access denied: shop_id=%s, user_id=%s", shopID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /shops/{id}/slots/{slotId} - Failed to delete slot: slot_id=%s, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /shops/{id}/slots/{slotId} - Slot deleted successfully: slot_id=%s", slotID)
	w.WriteHeader(http.StatusNoContent)
}
