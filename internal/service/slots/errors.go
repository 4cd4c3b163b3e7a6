package slots

import (
	"errors"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

var (
	// ErrShopNotFound возвращается, когда магазин не найден
	ErrShopNotFound = domain.NewError(domain.ErrNotFound, "slots: shop not found")

	// ErrSlotNotFound возвращается, когда слот не найден или принадлежит другому магазину
	ErrSlotNotFound = domain.NewError(domain.ErrNotFound, "slots: slot not found")

	// ErrSlotOverlap возвращается, когда окно пересекается с другим слотом магазина
	ErrSlotOverlap = domain.NewError(domain.ErrConflict, "slots: slot overlaps with an existing slot")

	// ErrSlotInUse возвращается при удалении слота с активными бронированиями
	ErrSlotInUse = domain.NewError(domain.ErrConflict, "slots: slot has active bookings")

	// ErrInvalidTimeRange возвращается, когда начало слота не раньше конца
	ErrInvalidTimeRange = domain.NewError(domain.ErrValidation, "slots: start must be before end")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "slots: invalid input data")

	// ErrAccessDenied возвращается, когда вызывающий не является магазином
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "slots: access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots: internal error")
)
