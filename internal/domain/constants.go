package domain

import "time"

// Значения по умолчанию
const (
	DefaultPaymentStatus      = "unpaid"
	DefaultAdvanceBookingDays = 0 // 0 = без ограничения
)

// Ограничения бизнес-валидации
const (
	MaxShopNameLength         = 200
	MaxAddressLength          = 500
	MaxDescriptionLength      = 2000
	MaxServiceNameLength      = 200
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов
	MaxPaymentStatusLength    = 50
	MaxMessageLength          = 2000
	MaxAdvanceBookingDays     = 365
	MinReviewRating           = 1
	MaxReviewRating           = 5
	MaxReviewCommentLength    = 2000
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DateOf возвращает дату (полночь UTC) для момента t
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ActiveStatuses статусы, занимающие слот
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
