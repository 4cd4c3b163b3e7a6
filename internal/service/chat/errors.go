package chat

import (
	"errors"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование комнаты не найдено
	ErrBookingNotFound = domain.NewError(domain.ErrNotFound, "chat: booking not found")

	// ErrRoomNotFound возвращается, когда комната не найдена
	ErrRoomNotFound = domain.NewError(domain.ErrNotFound, "chat: room not found")

	// ErrAccessDenied возвращается, когда вызывающий не участник бронирования
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "chat: access denied")

	// ErrParticipantsMismatch возвращается, когда магазин или клиент не совпадают с бронированием
	ErrParticipantsMismatch = domain.NewError(domain.ErrValidation, "chat: participants do not match booking")

	// ErrInvalidContent возвращается при пустом или слишком длинном сообщении
	ErrInvalidContent = domain.NewError(domain.ErrValidation, "chat: invalid message content")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "chat: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("chat: internal error")
)
