package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/pkg/types"
)

// TimeSlot окно времени в течение дня, которое можно забронировать
// Вместимость слота - одно бронирование на дату
type TimeSlot struct {
	ID        uuid.UUID
	ShopID    uuid.UUID
	Start     types.TimeString
	End       types.TimeString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps возвращает true, если окна пересекаются
// Соприкасающиеся окна (10:00-11:00 и 11:00-12:00) не пересекаются
func (s *TimeSlot) Overlaps(other *TimeSlot) bool {
	return s.Start.Minutes() < other.End.Minutes() && other.Start.Minutes() < s.End.Minutes()
}

// DurationMinutes длительность окна
func (s *TimeSlot) DurationMinutes() int {
	return s.End.Minutes() - s.Start.Minutes()
}
