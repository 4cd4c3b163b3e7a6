package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ShopBookingService/internal/usecase/create_booking"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidInput       = "не заполнены обязательные поля бронирования"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgShopClosed         = "магазин не принимает бронирования"
	msgShopNotFound       = "магазин не найден"
	msgSlotNotFound       = "временной слот не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidBookingDate = "дата бронирования уже прошла"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgForbidden          = "бронировать можно только от своего имени"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(callerID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse booking date %q: %v", req.BookingDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot not available: slot_id=%s, date=%s", req.SlotID, req.BookingDate)
			handlers.RespondAdmissionRejected(w, msgSlotNotAvailable, createBooking.RejectionReason(err))

		case errors.Is(err, createBooking.ErrShopClosed):
			h.logger.Warn("POST /bookings - Shop closed: shop_id=%s", req.ShopID)
			handlers.RespondAdmissionRejected(w, msgShopClosed, createBooking.RejectionReason(err))

		case errors.Is(err, createBooking.ErrShopNotFound):
			h.logger.Warn("POST /bookings - Shop not found: shop_id=%s", req.ShopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: shop_id=%s, slot_id=%s", req.ShopID, req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: shop_id=%s, service_id=%s", req.ShopID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: date=%s", req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: date=%s", req.BookingDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: customer_id=%s, user_id=%s", req.CustomerID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: shop_id=%s, customer_id=%s, error=%v",
				req.ShopID, req.CustomerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, customer_id=%s, shop_id=%s",
		result.ID, result.CustomerID, result.ShopID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
