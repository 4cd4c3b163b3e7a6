package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CallerID   uuid.UUID // Идентификатор вызывающего (из X-User-ID)
	ShopID     uuid.UUID // ID магазина
	SlotID     uuid.UUID // ID слота
	ServiceID  uuid.UUID // ID услуги
	CustomerID uuid.UUID // ID клиента
	Date       time.Time // Дата бронирования (без времени)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            uuid.UUID
	ShopID        uuid.UUID
	SlotID        uuid.UUID
	ServiceID     uuid.UUID
	CustomerID    uuid.UUID
	BookingDate   time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	Status        string
	PaymentStatus string

	// Денормализованные данные услуги
	ServiceName  string
	ServicePrice float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
