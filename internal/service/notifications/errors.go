package notifications

import (
	"errors"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

var (
	// ErrNotificationNotFound возвращается, когда уведомление не найдено
	ErrNotificationNotFound = domain.NewError(domain.ErrNotFound, "notifications: notification not found")

	// ErrAccessDenied возвращается, когда вызывающий не является получателем
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "notifications: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "notifications: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("notifications: internal error")
)
