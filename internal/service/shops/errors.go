package shops

import (
	"errors"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

var (
	// ErrShopNotFound возвращается, когда магазин не найден
	ErrShopNotFound = domain.NewError(domain.ErrNotFound, "shops: shop not found")

	// ErrShopAlreadyExists возвращается при повторной регистрации магазина
	ErrShopAlreadyExists = domain.NewError(domain.ErrConflict, "shops: shop already exists")

	// ErrAccessDenied возвращается, когда вызывающий не является магазином
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "shops: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "shops: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("shops: internal error")
)
