package reviews

import (
	"errors"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

var (
	// ErrShopNotFound возвращается, когда магазин не найден
	ErrShopNotFound = domain.NewError(domain.ErrNotFound, "reviews: shop not found")

	// ErrBookingNotFound возвращается, когда бронирование для отзыва не найдено
	ErrBookingNotFound = domain.NewError(domain.ErrNotFound, "reviews: booking not found")

	// ErrReviewNotFound возвращается, когда отзыв не найден
	ErrReviewNotFound = domain.NewError(domain.ErrNotFound, "reviews: review not found")

	// ErrBookingNotCompleted возвращается при отзыве на незавершённое бронирование
	ErrBookingNotCompleted = domain.NewError(domain.ErrConflict, "reviews: booking is not completed")

	// ErrAlreadyReviewed возвращается при повторном отзыве на бронирование
	ErrAlreadyReviewed = domain.NewError(domain.ErrConflict, "reviews: booking already reviewed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "reviews: invalid input data")

	// ErrAccessDenied возвращается, когда вызывающий не клиент бронирования или не автор отзыва
	ErrAccessDenied = domain.NewError(domain.ErrForbidden, "reviews: access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reviews: internal error")
)
