package create_slot

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
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTimeRange   = "время начала слота должно быть раньше времени окончания"
	msgInvalidInput       = "некорректный формат времени, ожидается HH:MM"
	msgSlotOverlap        = "слот пересекается с существующим слотом"
	msgShopNotFound       = "магазин не найден"
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

// Handle POST /api/v1/shops/{shopId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("POST /shops/{id}/slots - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /shops/{id}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.SlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shops/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Add(r.Context(), callerID, shopID, &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidTimeRange):
			h.logger.Warn("POST /shops/{id}/slots - Invalid time range: shop_id=%s, %s-%s", shopID, req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /shops/{id}/slots - Invalid input: shop_id=%s, error=%v", shopID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, slots.ErrSlotOverlap):
			h.logger.Warn("POST /shops/{id}/slots - Slot overlap: shop_id=%s, %s-%s", shopID, req.StartTime, req.EndTime)
			handlers.RespondConflict(w, msgSlotOverlap)

		case errors.Is(err, slots.ErrShopNotFound):
			h.logger.Warn("POST /shops/{id}/slots - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("POST /shops/{id}/slots - Access denied: shop_id=%s, user_id=%s", shopID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /shops/{id}/slots - Failed to add slot: shop_id=%s, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shops/{id}/slots - Slot created successfully: shop_id=%s, slot_id=%s", shopID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
