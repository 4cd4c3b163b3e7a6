package bookings

import (
	"errors"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = domain.NewError(domain.ErrNotFound, "bookings: booking not found")

	// ErrAccessDenied возвращается, когда у вызывающего нет прав на бронирование
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "bookings: access denied")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = domain.NewError(domain.ErrInvalidTransition, "bookings: invalid status transition")

	// ErrInvalidStatus возвращается при неизвестном статусе
	ErrInvalidStatus = domain.NewError(domain.ErrValidation, "bookings: invalid booking status")

	// ErrInvalidActor возвращается при неизвестной стороне перехода
	ErrInvalidActor = domain.NewError(domain.ErrValidation, "bookings: invalid actor")

	// ErrInvalidTimeRange возвращается, когда from позже to
	ErrInvalidTimeRange = domain.NewError(domain.ErrValidation, "bookings: invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
