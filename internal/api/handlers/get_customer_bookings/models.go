package get_customer_bookings

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// from и to - даты бронирования YYYY-MM-DD включительно
func ToServiceRequest(ownerID, callerID uuid.UUID, statusStr, fromStr, toStr string) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		CallerID: callerID,
		OwnerID:  ownerID,
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}

	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, err
		}
		req.To = &to
	}

	return req, nil
}
