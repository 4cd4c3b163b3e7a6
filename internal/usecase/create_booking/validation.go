package create_booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ShopID == uuid.Nil {
		return fmt.Errorf("%w: shopId is required", ErrInvalidInput)
	}

	if req.SlotID == uuid.Nil {
		return fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}

	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	if req.CustomerID == uuid.Nil {
		return fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата не раньше сегодняшней и укладывается в advanceBookingDays
// advanceBookingDays = 0 снимает ограничение сверху
func validateDate(bookingDate time.Time, now time.Time, advanceBookingDays int) error {
	date := domain.DateOf(bookingDate)
	today := domain.DateOf(now)

	if date.Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, date.Format(domain.DateFormat))
	}

	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := today.AddDate(0, 0, advanceBookingDays)
	if date.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}
