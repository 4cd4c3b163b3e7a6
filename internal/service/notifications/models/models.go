package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// NotificationResponse ответ с данными уведомления
type NotificationResponse struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	TargetID   uuid.UUID  `json:"targetId"`
	Message    string     `json:"message"`
	BookingID  *uuid.UUID `json:"bookingId,omitempty"`
	ChatRoomID *uuid.UUID `json:"chatRoomId,omitempty"`
	IsRead     bool       `json:"isRead"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// NotificationListResponse список уведомлений и количество непрочитанных,
// посчитанные по одному снимку данных
type NotificationListResponse struct {
	Items       []NotificationResponse `json:"items"`
	UnreadCount int                    `json:"unreadCount"`
}

// MarkAllReadResponse результат пометки всех уведомлений
type MarkAllReadResponse struct {
	Marked int64 `json:"marked"`
}

// FromDomainNotification конвертирует domain модель в DTO
func FromDomainNotification(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Type:       string(n.Type),
		TargetID:   n.TargetID,
		Message:    n.Message,
		BookingID:  n.BookingID,
		ChatRoomID: n.ChatRoomID,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}

// FromDomainNotificationList конвертирует список уведомлений
func FromDomainNotificationList(list []*domain.Notification, unread int) *NotificationListResponse {
	items := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, FromDomainNotification(n))
	}
	return &NotificationListResponse{Items: items, UnreadCount: unread}
}
