package create_shop

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/shops"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/shops/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные магазина"
	msgAlreadyExists      = "магазин уже зарегистрирован"
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

// Handle POST /api/v1/shops
// Магазин регистрируется под идентификатором из X-User-ID
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /shops - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.ShopRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shops - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, shops.ErrInvalidInput):
			h.logger.Warn("POST /shops - Invalid input: shop_id=%s, error=%v", callerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, shops.ErrShopAlreadyExists):
			h.logger.Warn("POST /shops - Shop already exists: shop_id=%s", callerID)
			handlers.RespondConflict(w, msgAlreadyExists)

		default:
			h.logger.Error("POST /shops - Failed to create shop: shop_id=%s, error=%v", callerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shops - Shop created successfully: shop_id=%s", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
