package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType тип уведомления
type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "booking-created"
	NotificationBookingConfirmed NotificationType = "booking-confirmed"
	NotificationBookingCanceled  NotificationType = "booking-canceled"
	NotificationBookingCompleted NotificationType = "booking-completed"
	NotificationPaymentUpdated   NotificationType = "payment-updated"
	NotificationProfileUpdated   NotificationType = "profile-updated"
	NotificationMessageReceived  NotificationType = "message-received"
	NotificationReviewReceived   NotificationType = "review-received"
)

// Notification уведомление для магазина или клиента
// После создания меняется только IsRead
type Notification struct {
	ID         uuid.UUID
	Type       NotificationType
	TargetID   uuid.UUID
	Message    string
	BookingID  *uuid.UUID
	ChatRoomID *uuid.UUID
	IsRead     bool
	Seq        int64
	CreatedAt  time.Time
}

// NotificationTypeForStatus тип уведомления о переходе в статус
func NotificationTypeForStatus(status BookingStatus) NotificationType {
	switch status {
	case StatusConfirmed:
		return NotificationBookingConfirmed
	case StatusCanceled:
		return NotificationBookingCanceled
	case StatusCompleted:
		return NotificationBookingCompleted
	default:
		return NotificationBookingCreated
	}
}

// NotificationLinks необязательные ссылки уведомления на бронирование и чат
type NotificationLinks struct {
	BookingID  *uuid.UUID
	ChatRoomID *uuid.UUID
}
