package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// markAvailability размечает слоты на дату
// Слот занят, если на него есть активное бронирование (ёмкость слота 1).
// Для сегодняшней даты уже начавшиеся окна не предлагаются
func markAvailability(
	timeSlots []*domain.TimeSlot,
	bookings []*domain.Booking,
	workModeOn bool,
	requestDate time.Time,
	now time.Time,
) []Slot {
	occupied := make(map[uuid.UUID]struct{}, len(bookings))
	for _, booking := range bookings {
		if booking.IsActive() {
			occupied[booking.SlotID] = struct{}{}
		}
	}

	today := domain.DateOf(requestDate).Equal(domain.DateOf(now))
	nowMinutes := now.Hour()*60 + now.Minute()

	result := make([]Slot, len(timeSlots))
	for i, slot := range timeSlots {
		_, taken := occupied[slot.ID]
		started := today && slot.Start.Minutes() <= nowMinutes

		result[i] = Slot{
			SlotID:    slot.ID,
			StartTime: slot.Start,
			EndTime:   slot.End,
			Available: workModeOn && !taken && !started,
		}
	}

	return result
}
