package domain

import (
	"time"

	"github.com/google/uuid"
)

// Service услуга магазина. Используется для отображения и цены,
// на доступность слотов не влияет
type Service struct {
	ID              uuid.UUID
	ShopID          uuid.UUID
	Name            string
	Price           float64
	DurationMinutes int
	Description     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
