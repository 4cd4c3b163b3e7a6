package create_booking

import (
	"errors"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

var (
	// ErrShopNotFound возвращается, когда магазин не найден
	ErrShopNotFound = domain.NewError(domain.ErrNotFound, "create_booking: shop not found")

	// ErrShopClosed возвращается, когда режим работы магазина выключен
	ErrShopClosed = domain.NewError(domain.ErrAdmission, "create_booking: shop is closed")

	// ErrSlotNotFound возвращается, когда слот не найден или принадлежит другому магазину
	ErrSlotNotFound = domain.NewError(domain.ErrNotFound, "create_booking: slot not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому магазину
	ErrServiceNotFound = domain.NewError(domain.ErrNotFound, "create_booking: service not found")

	// ErrInvalidDate возвращается, когда дата бронирования в прошлом
	ErrInvalidDate = domain.NewError(domain.ErrValidation, "create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = domain.NewError(domain.ErrValidation, "create_booking: date is too far in the future")

	// ErrSlotUnavailable возвращается, когда на слот и дату уже есть активное бронирование
	ErrSlotUnavailable = domain.NewError(domain.ErrAdmission, "create_booking: slot is not available")

	// ErrAccessDenied возвращается, когда вызывающий не является клиентом бронирования
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "create_booking: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// RejectionReason причина отказа в допуске для ответа клиенту
// Для ошибок, не связанных с допуском, возвращает пустую строку
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrShopClosed):
		return domain.ReasonShopClosed
	case errors.Is(err, ErrSlotUnavailable):
		return domain.ReasonSlotUnavailable
	default:
		return ""
	}
}
