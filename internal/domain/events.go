package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ключи маршрутизации событий бронирования
const (
	EventBookingCreated        = "booking.created"
	EventBookingConfirmed      = "booking.confirmed"
	EventBookingCanceled       = "booking.canceled"
	EventBookingCompleted      = "booking.completed"
	EventBookingPaymentUpdated = "booking.payment_updated"
)

// BookingEvent событие жизненного цикла бронирования, публикуется после коммита
type BookingEvent struct {
	BookingID     uuid.UUID `json:"bookingId"`
	ShopID        uuid.UUID `json:"shopId"`
	CustomerID    uuid.UUID `json:"customerId"`
	SlotID        uuid.UUID `json:"slotId"`
	BookingDate   string    `json:"bookingDate"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewBookingEvent собирает событие из бронирования
func NewBookingEvent(b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		BookingID:     b.ID,
		ShopID:        b.ShopID,
		CustomerID:    b.CustomerID,
		SlotID:        b.SlotID,
		BookingDate:   b.BookingDate.Format(DateFormat),
		Status:        string(b.Status),
		PaymentStatus: b.PaymentStatus,
		OccurredAt:    at.UTC(),
	}
}

// EventKeyForStatus ключ маршрутизации для перехода в статус
func EventKeyForStatus(status BookingStatus) string {
	switch status {
	case StatusConfirmed:
		return EventBookingConfirmed
	case StatusCanceled:
		return EventBookingCanceled
	case StatusCompleted:
		return EventBookingCompleted
	default:
		return EventBookingCreated
	}
}
