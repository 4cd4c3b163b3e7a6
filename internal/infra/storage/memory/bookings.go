package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/booking"
)

// BookingRepository бронирования в памяти
// activeSlots повторяет частичный уникальный индекс (slot_id, booking_date) WHERE status <> 'canceled'
type BookingRepository struct {
	s *Store
}

func keyOf(slotID uuid.UUID, date time.Time) slotDateKey {
	return slotDateKey{slotID: slotID, date: domain.DateOf(date).Format(domain.DateFormat)}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	err := r.s.write(ctx, func(onRollback func(func())) error {
		key := keyOf(booking.SlotID, booking.BookingDate)
		if booking.Status != domain.StatusCanceled {
			if _, taken := r.s.activeSlots[key]; taken {
				return bookingRepo.ErrSlotTaken
			}
		}

		r.s.bookingSeq++
		now := r.s.now()
		booking.Seq = r.s.bookingSeq
		booking.BookingDate = domain.DateOf(booking.BookingDate)
		booking.CreatedAt = now
		booking.UpdatedAt = now

		stored := *booking
		r.s.bookings = append(r.s.bookings, &stored)
		r.s.bookingByID[stored.ID] = &stored
		if stored.Status != domain.StatusCanceled {
			r.s.activeSlots[key] = stored.ID
		}

		onRollback(func() {
			r.s.bookings = r.s.bookings[:len(r.s.bookings)-1]
			delete(r.s.bookingByID, stored.ID)
			if stored.Status != domain.StatusCanceled {
				delete(r.s.activeSlots, key)
			}
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var result *domain.Booking
	err := r.s.read(ctx, func() error {
		booking, ok := r.s.bookingByID[id]
		if !ok {
			return bookingRepo.ErrBookingNotFound
		}
		cp := *booking
		result = &cp
		return nil
	})
	return result, err
}

func (r *BookingRepository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	if filter.ShopID == nil && filter.CustomerID == nil {
		return nil, bookingRepo.ErrInvalidFilter
	}

	result := make([]*domain.Booking, 0)
	err := r.s.read(ctx, func() error {
		for _, b := range r.s.bookings {
			if filter.ShopID != nil && b.ShopID != *filter.ShopID {
				continue
			}
			if filter.CustomerID != nil && b.CustomerID != *filter.CustomerID {
				continue
			}
			if filter.Status != nil && b.Status != *filter.Status {
				continue
			}
			if filter.From != nil && b.BookingDate.Before(domain.DateOf(*filter.From)) {
				continue
			}
			if filter.To != nil && b.BookingDate.After(domain.DateOf(*filter.To)) {
				continue
			}
			cp := *b
			result = append(result, &cp)
		}
		return nil
	})
	return result, err
}

func (r *BookingRepository) ExistsActive(ctx context.Context, slotID uuid.UUID, date time.Time) (bool, error) {
	var exists bool
	err := r.s.read(ctx, func() error {
		_, exists = r.s.activeSlots[keyOf(slotID, date)]
		return nil
	})
	return exists, err
}

func (r *BookingRepository) HasActiveSince(ctx context.Context, filter domain.ActiveBookingsFilter) (bool, error) {
	from := domain.DateOf(filter.FromDate)
	var exists bool
	err := r.s.read(ctx, func() error {
		for _, b := range r.s.bookings {
			if !b.IsActive() || b.BookingDate.Before(from) {
				continue
			}
			if filter.SlotID != nil && b.SlotID != *filter.SlotID {
				continue
			}
			if filter.ServiceID != nil && b.ServiceID != *filter.ServiceID {
				continue
			}
			exists = true
			return nil
		}
		return nil
	})
	return exists, err
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (*domain.Booking, error) {
	var result *domain.Booking
	err := r.s.write(ctx, func(onRollback func(func())) error {
		stored, ok := r.s.bookingByID[id]
		if !ok || stored.Status != from {
			return bookingRepo.ErrStatusChanged
		}

		prev := *stored
		key := keyOf(stored.SlotID, stored.BookingDate)
		stored.Status = to
		stored.UpdatedAt = r.s.now()
		if to == domain.StatusCanceled {
			delete(r.s.activeSlots, key)
		}

		onRollback(func() {
			*stored = prev
			if prev.Status != domain.StatusCanceled {
				r.s.activeSlots[key] = prev.ID
			}
		})

		cp := *stored
		result = &cp
		return nil
	})
	return result, err
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (*domain.Booking, error) {
	var result *domain.Booking
	err := r.s.write(ctx, func(onRollback func(func())) error {
		stored, ok := r.s.bookingByID[id]
		if !ok {
			return bookingRepo.ErrBookingNotFound
		}
		prev := *stored
		stored.PaymentStatus = paymentStatus
		stored.UpdatedAt = r.s.now()
		onRollback(func() { *stored = prev })
		cp := *stored
		result = &cp
		return nil
	})
	return result, err
}
