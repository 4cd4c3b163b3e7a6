package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// OpenRoomRequest запрос на открытие комнаты бронирования
type OpenRoomRequest struct {
	BookingID  uuid.UUID `json:"bookingId"`
	ShopID     uuid.UUID `json:"shopId"`
	CustomerID uuid.UUID `json:"customerId"`
}

// PostMessageRequest новое сообщение
type PostMessageRequest struct {
	Content string `json:"content"`
}

// RoomResponse ответ с данными комнаты
type RoomResponse struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"bookingId"`
	ShopID     uuid.UUID `json:"shopId"`
	CustomerID uuid.UUID `json:"customerId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MessageResponse ответ с сообщением
// IsRead - получатель прочитал сообщение
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"roomId"`
	SenderID  uuid.UUID `json:"senderId"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageListResponse сообщения по возрастанию createdAt и непрочитанные для вызывающего
type MessageListResponse struct {
	Messages    []MessageResponse `json:"messages"`
	UnreadCount int               `json:"unreadCount"`
}

// MarkReadResponse позиция курсора прочтения после пометки
type MarkReadResponse struct {
	RoomID    uuid.UUID  `json:"roomId"`
	ReadUntil *time.Time `json:"readUntil,omitempty"`
}

// FromDomainRoom конвертирует domain модель в DTO
func FromDomainRoom(room *domain.ChatRoom) *RoomResponse {
	return &RoomResponse{
		ID:         room.ID,
		BookingID:  room.BookingID,
		ShopID:     room.ShopID,
		CustomerID: room.CustomerID,
		CreatedAt:  room.CreatedAt,
	}
}

// FromDomainMessage конвертирует domain модель в DTO
func FromDomainMessage(msg *domain.Message, isRead bool) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		RoomID:    msg.RoomID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		IsRead:    isRead,
		CreatedAt: msg.CreatedAt,
	}
}
