package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatRoom чат между магазином и клиентом, один на бронирование
type ChatRoom struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	ShopID     uuid.UUID
	CustomerID uuid.UUID
	CreatedAt  time.Time
}

// IsParticipant id - магазин или клиент комнаты
func (r *ChatRoom) IsParticipant(id uuid.UUID) bool {
	return id == r.ShopID || id == r.CustomerID
}

// Other возвращает второго участника
func (r *ChatRoom) Other(id uuid.UUID) uuid.UUID {
	if id == r.ShopID {
		return r.CustomerID
	}
	return r.ShopID
}

// Message сообщение чата, неизменяемое после создания
// CreatedAt строго возрастает внутри комнаты
type Message struct {
	ID        uuid.UUID
	RoomID    uuid.UUID
	SenderID  uuid.UUID
	Content   string
	Seq       int64
	CreatedAt time.Time
}
