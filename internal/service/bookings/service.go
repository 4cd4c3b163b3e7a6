package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	notifier    Notifier
	publisher   EventPublisher
	txManager   TransactionManager
	locker      KeyLocker
	metrics     Metrics
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	notifier Notifier,
	publisher EventPublisher,
	txManager TransactionManager,
	locker KeyLocker,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		publisher:   publisher,
		txManager:   txManager,
		locker:      locker,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование могут только его магазин и клиент
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, callerID uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for caller=%s", id, callerID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !booking.IsParticipant(callerID) {
		s.logger.Warn("GetByID: access denied for caller=%s to booking id=%s", callerID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetShopBookings бронирования магазина в порядке создания
func (s *Service) GetShopBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetShopBookings: shop=%s, caller=%s", req.OwnerID, req.CallerID)

	if req.CallerID != req.OwnerID {
		s.logger.Warn("GetShopBookings: caller=%s is not shop=%s", req.CallerID, req.OwnerID)
		return nil, ErrAccessDenied
	}

	filter, err := toDomainFilter(req)
	if err != nil {
		s.logger.Warn("GetShopBookings: invalid filter: %v", err)
		return nil, err
	}
	filter.ShopID = &req.OwnerID

	return s.list(ctx, "GetShopBookings", filter)
}

// GetCustomerBookings бронирования клиента в порядке создания
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: customer=%s, caller=%s", req.OwnerID, req.CallerID)

	if req.CallerID != req.OwnerID {
		s.logger.Warn("GetCustomerBookings: caller=%s is not customer=%s", req.CallerID, req.OwnerID)
		return nil, ErrAccessDenied
	}

	filter, err := toDomainFilter(req)
	if err != nil {
		s.logger.Warn("GetCustomerBookings: invalid filter: %v", err)
		return nil, err
	}
	filter.CustomerID = &req.OwnerID

	return s.list(ctx, "GetCustomerBookings", filter)
}

func (s *Service) list(ctx context.Context, op string, filter domain.BookingsFilter) (*models.BookingListResponse, error) {
	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: fetched %d bookings", op, len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus выполняет переход статуса от имени стороны actor
// Переходы одного бронирования линейны: блокировка по ключу и условный UPDATE.
// Успешный переход создает ровно одно уведомление второй стороне в той же транзакции
func (s *Service) UpdateStatus(ctx context.Context, bookingID, callerID uuid.UUID, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%s -> %s by %s=%s", bookingID, req.Status, req.Actor, callerID)

	to, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateStatus: invalid status=%q", req.Status)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	actor, ok := domain.ParseActor(req.Actor)
	if !ok {
		s.logger.Warn("UpdateStatus: invalid actor=%q", req.Actor)
		return nil, fmt.Errorf("%w: %q", ErrInvalidActor, req.Actor)
	}

	var updated *domain.Booking
	transition := func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - get booking: %v", ErrInternal, err)
		}

		if booking.ParticipantID(actor) != callerID {
			return ErrAccessDenied
		}

		if !domain.CanTransition(booking.Status, to, actor) {
			return fmt.Errorf("%w: %s -> %s by %s", ErrInvalidTransition, booking.Status, to, actor)
		}

		updated, err = s.bookingRepo.UpdateStatus(txCtx, bookingID, booking.Status, to)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrStatusChanged) {
				return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		target := updated.Counterparty(actor)
		if _, err := s.notifier.Emit(txCtx, target, domain.NotificationTypeForStatus(to), statusMessage(updated),
			domain.NotificationLinks{BookingID: &updated.ID}); err != nil {
			return fmt.Errorf("%w: UpdateStatus - emit notification: %v", ErrInternal, err)
		}

		return nil
	}

	// Событие публикуется после снятия блокировки бронирования
	err := s.locker.WithLock(bookingLockKey(bookingID), func() error {
		return s.txManager.Do(ctx, transition)
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("UpdateStatus: failed for booking id=%s: %v", bookingID, err)
		} else {
			s.logger.Warn("UpdateStatus: rejected for booking id=%s: %v", bookingID, err)
		}
		return nil, err
	}

	s.metrics.IncBookingTransition(string(to))
	s.publisher.PublishBookingEvent(ctx, domain.EventKeyForStatus(to), updated)

	s.logger.Info("UpdateStatus: booking id=%s is now %s", bookingID, to)
	return models.FromDomainBooking(updated), nil
}

// UpdatePaymentStatus сохраняет статус оплаты от платежного сервиса и уведомляет магазин
// Статус бронирования не меняется
func (s *Service) UpdatePaymentStatus(ctx context.Context, bookingID uuid.UUID, req *models.UpdatePaymentStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdatePaymentStatus: booking id=%s, paymentStatus=%q", bookingID, req.PaymentStatus)

	paymentStatus := strings.TrimSpace(req.PaymentStatus)
	if paymentStatus == "" || len(paymentStatus) > domain.MaxPaymentStatusLength {
		s.logger.Warn("UpdatePaymentStatus: invalid paymentStatus=%q", req.PaymentStatus)
		return nil, fmt.Errorf("%w: paymentStatus must be 1..%d characters", ErrInvalidInput, domain.MaxPaymentStatusLength)
	}

	var updated *domain.Booking
	update := func(txCtx context.Context) error {
		var err error
		updated, err = s.bookingRepo.UpdatePaymentStatus(txCtx, bookingID, paymentStatus)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
		}

		message := fmt.Sprintf("Статус оплаты бронирования на %s: %s", updated.BookingDate.Format(domain.DateFormat), paymentStatus)
		if _, err := s.notifier.Emit(txCtx, updated.ShopID, domain.NotificationPaymentUpdated, message,
			domain.NotificationLinks{BookingID: &updated.ID}); err != nil {
			return fmt.Errorf("%w: UpdatePaymentStatus - emit notification: %v", ErrInternal, err)
		}
		return nil
	}

	err := s.locker.WithLock(bookingLockKey(bookingID), func() error {
		return s.txManager.Do(ctx, update)
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			s.logger.Warn("UpdatePaymentStatus: booking id=%s not found", bookingID)
		} else {
			s.logger.Error("UpdatePaymentStatus: failed for booking id=%s: %v", bookingID, err)
		}
		return nil, err
	}

	s.publisher.PublishBookingEvent(ctx, domain.EventBookingPaymentUpdated, updated)

	s.logger.Info("UpdatePaymentStatus: booking id=%s paymentStatus=%s", bookingID, paymentStatus)
	return models.FromDomainBooking(updated), nil
}

func bookingLockKey(bookingID uuid.UUID) string {
	return "booking:" + bookingID.String()
}

func toDomainFilter(req *models.ListBookingsRequest) (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		From: req.From,
		To:   req.To,
	}

	if req.Status != nil {
		status, ok := domain.ParseBookingStatus(*req.Status)
		if !ok {
			return filter, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
		}
		filter.Status = &status
	}

	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return filter, ErrInvalidTimeRange
	}

	return filter, nil
}

func statusMessage(b *domain.Booking) string {
	date := b.BookingDate.Format(domain.DateFormat)
	switch b.Status {
	case domain.StatusConfirmed:
		return fmt.Sprintf("Бронирование на %s подтверждено", date)
	case domain.StatusCanceled:
		return fmt.Sprintf("Бронирование на %s отменено", date)
	case domain.StatusCompleted:
		return fmt.Sprintf("Бронирование на %s завершено", date)
	default:
		return fmt.Sprintf("Бронирование на %s обновлено", date)
	}
}
