package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// Request модели

// UpdateStatusRequest запрос на переход статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

// UpdatePaymentStatusRequest запрос платежного сервиса на смену статуса оплаты
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// ListBookingsRequest запрос списка бронирований магазина или клиента
type ListBookingsRequest struct {
	CallerID uuid.UUID
	OwnerID  uuid.UUID  // ID магазина или клиента, чьи бронирования запрошены
	Status   *string    // Фильтр по статусу (опционально)
	From     *time.Time // Дата бронирования не раньше (опционально)
	To       *time.Time // Дата бронирования не позже (опционально)
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            uuid.UUID `json:"id"`
	ShopID        uuid.UUID `json:"shopId"`
	SlotID        uuid.UUID `json:"slotId"`
	ServiceID     uuid.UUID `json:"serviceId"`
	CustomerID    uuid.UUID `json:"customerId"`
	BookingDate   string    `json:"bookingDate"` // "2025-10-15"
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BookingListResponse список бронирований в порядке создания
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:            b.ID,
		ShopID:        b.ShopID,
		SlotID:        b.SlotID,
		ServiceID:     b.ServiceID,
		CustomerID:    b.CustomerID,
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		Status:        string(b.Status),
		PaymentStatus: b.PaymentStatus,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, *FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: result}
}
