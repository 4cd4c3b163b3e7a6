package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-ShopBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ShopID      uuid.UUID `json:"shopId"`
	SlotID      uuid.UUID `json:"slotId"`
	ServiceID   uuid.UUID `json:"serviceId"`
	CustomerID  uuid.UUID `json:"customerId"`
	BookingDate string    `json:"bookingDate"` // "2025-10-15"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            uuid.UUID `json:"id"`
	ShopID        uuid.UUID `json:"shopId"`
	SlotID        uuid.UUID `json:"slotId"`
	ServiceID     uuid.UUID `json:"serviceId"`
	CustomerID    uuid.UUID `json:"customerId"`
	BookingDate   string    `json:"bookingDate"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	ServiceName   string    `json:"serviceName"`
	ServicePrice  float64   `json:"servicePrice"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(callerID uuid.UUID) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CallerID:   callerID,
		ShopID:     r.ShopID,
		SlotID:     r.SlotID,
		ServiceID:  r.ServiceID,
		CustomerID: r.CustomerID,
		Date:       bookingDate,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		ShopID:        resp.ShopID,
		SlotID:        resp.SlotID,
		ServiceID:     resp.ServiceID,
		CustomerID:    resp.CustomerID,
		BookingDate:   resp.BookingDate.Format(domain.DateFormat),
		StartTime:     resp.StartTime.String(),
		EndTime:       resp.EndTime.String(),
		Status:        resp.Status,
		PaymentStatus: resp.PaymentStatus,
		ServiceName:   resp.ServiceName,
		ServicePrice:  resp.ServicePrice,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
