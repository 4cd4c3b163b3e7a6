package catalog

import (
	"errors"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

var (
	// ErrShopNotFound возвращается, когда магазин не найден
	ErrShopNotFound = domain.NewError(domain.ErrNotFound, "catalog: shop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому магазину
	ErrServiceNotFound = domain.NewError(domain.ErrNotFound, "catalog: service not found")

	// ErrServiceInUse возвращается при удалении услуги с активными бронированиями
	ErrServiceInUse = domain.NewError(domain.ErrConflict, "catalog: service has active bookings")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "catalog: invalid input data")

	// ErrAccessDenied возвращается, когда вызывающий не является магазином
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "catalog: access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog: internal error")
)
