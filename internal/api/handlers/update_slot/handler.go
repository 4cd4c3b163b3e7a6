package update_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/slots"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/slots/models"
)

const (
	msgInvalidShopID      = "некорректный ID магазина"
	msgInvalidSlotID      = "некорректный ID слота"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTimeRange   = "время начала слота должно быть раньше времени окончания"
	msgInvalidInput       = "некорректный формат времени, ожидается HH:MM"
	msgSlotOverlap        = "слот пересекается с существующим слотом"
	msgShopNotFound       = "магазин не найден"
	msgSlotNotFound       = "слот не найден"
	msgForbidden          = "доступ запрещен"
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

// Handle PUT /api/v1/shops/{shopId}/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("PUT /shops/{id}/slots/{slotId} - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	slotID, err := handlers.PathUUID(r, "slotId")
	if err != nil {
		h.logger.Warn("PUT /shops/{id}/slots/{slotId} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /shops/{id}/slots/{slotId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.SlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /shops/{id}/slots/{slotId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), callerID, shopID, slotID, &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidTimeRange):
			h.logger.Warn("PUT /shops/{id}/slots/{slotId} - Invalid time range: slot_id=%s", slotID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("PUT /shops/{id}/slots/{slotId} - Invalid input: slot_id=%s, error=%v", slotID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, slots.ErrSlotOverlap):
			h.logger.Warn("PUT /shops/{id}/slots/{slotId} - Slot overlap: slot_id=%s", slotID)
			handlers.RespondConflict(w, msgSlotOverlap)

		case errors.Is(err, slots.ErrShopNotFound):
			h.logger.Warn("PUT /shops/{id}/slots/{slotId} - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("PUT /shops/{id}/slots/{slotId} - Slot not found: slot_id=%s", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("PUT /shops/{id}/slots/{slotId} - Access denied: shop_id=%s, user_id=%s", shopID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /shops/{id}/slots/{slotId} - Failed to update slot: slot_id=%s, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /shops/{id}/slots/{slotId} - Slot updated successfully: slot_id=%s", slotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
