package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review отзыв клиента о магазине по завершённому бронированию
// На одно бронирование не больше одного отзыва
type Review struct {
	ID         uuid.UUID
	ShopID     uuid.UUID
	BookingID  uuid.UUID
	CustomerID uuid.UUID
	Rating     int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
