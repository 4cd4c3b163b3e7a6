package domain

import "errors"

// Категории ошибок. Ошибки сервисов и usecase оборачивают одну из них,
// чтобы вызывающий код мог проверить категорию через errors.Is
var (
	// ErrValidation некорректные входные данные
	ErrValidation = errors.New("validation error")

	// ErrNotFound сущность не найдена
	ErrNotFound = errors.New("not found")

	// ErrConflict операция противоречит текущему состоянию (пересечение слотов, активные бронирования)
	ErrConflict = errors.New("conflict")

	// ErrAdmission бронирование не принято (магазин закрыт или слот занят)
	ErrAdmission = errors.New("admission rejected")

	// ErrInvalidTransition недопустимый переход статуса бронирования
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrForbidden у вызывающего нет прав на операцию
	ErrForbidden = errors.New("forbidden")
)

// Причины отказа в бронировании
const (
	ReasonShopClosed      = "ShopClosed"
	ReasonSlotUnavailable = "SlotUnavailable"
)

// categorizedError ошибка с категорией: Error() возвращает текст,
// errors.Is(err, category) возвращает true
type categorizedError struct {
	category error
	msg      string
}

func (e *categorizedError) Error() string {
	return e.msg
}

func (e *categorizedError) Unwrap() error {
	return e.category
}

// NewError создает ошибку категории category
func NewError(category error, msg string) error {
	return &categorizedError{category: category, msg: msg}
}
