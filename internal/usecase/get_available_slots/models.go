package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/pkg/types"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	ShopID uuid.UUID
	Date   time.Time // Дата без времени
}

// Response модель ответа со слотами магазина на дату
type Response struct {
	Date       time.Time
	ShopID     uuid.UUID
	WorkModeOn bool   // при выключенном режиме работы свободных слотов нет
	Slots      []Slot // все слоты магазина, упорядоченные по времени начала
}

// Slot окно магазина и его доступность на дату
type Slot struct {
	SlotID    uuid.UUID
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
}
