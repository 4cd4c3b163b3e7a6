package domain

import (
	"time"

	"github.com/google/uuid"
)

// Shop магазин, принимающий бронирования
// ID магазина совпадает с идентификатором, под которым магазин аутентифицируется
type Shop struct {
	ID            uuid.UUID
	Name          string
	Address       string
	ContactNumber string
	Description   *string
	WorkModeOn    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
