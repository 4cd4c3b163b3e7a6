package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// SlotRequest окно слота в формате HH:MM
type SlotRequest struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID              uuid.UUID `json:"id"`
	ShopID          uuid.UUID `json:"shopId"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SlotListResponse слоты магазина, упорядоченные по началу
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(slot *domain.TimeSlot) *SlotResponse {
	return &SlotResponse{
		ID:              slot.ID,
		ShopID:          slot.ShopID,
		StartTime:       slot.Start.String(),
		EndTime:         slot.End.String(),
		DurationMinutes: slot.DurationMinutes(),
		CreatedAt:       slot.CreatedAt,
		UpdatedAt:       slot.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список слотов
func FromDomainSlotList(slots []*domain.TimeSlot) *SlotListResponse {
	result := make([]SlotResponse, 0, len(slots))
	for _, slot := range slots {
		result = append(result, *FromDomainSlot(slot))
	}
	return &SlotListResponse{Slots: result}
}
