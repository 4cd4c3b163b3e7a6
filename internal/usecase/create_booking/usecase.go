package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/booking"
	shopRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shop"
	serviceRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shopservice"
	slotRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/slot"
)

// UseCase use case для создания бронирования
type UseCase struct {
	shopRepo           ShopRepository
	slotRepo           SlotRepository
	serviceRepo        ServiceRepository
	bookingRepo        BookingRepository
	notifier           Notifier
	publisher          EventPublisher
	txManager          TransactionManager
	locker             KeyLocker
	metrics            Metrics
	timeProvider       TimeProvider
	advanceBookingDays int
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	shopRepo ShopRepository,
	slotRepo SlotRepository,
	serviceRepo ServiceRepository,
	bookingRepo BookingRepository,
	notifier Notifier,
	publisher EventPublisher,
	txManager TransactionManager,
	locker KeyLocker,
	metrics Metrics,
	advanceBookingDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		shopRepo:           shopRepo,
		slotRepo:           slotRepo,
		serviceRepo:        serviceRepo,
		bookingRepo:        bookingRepo,
		notifier:           notifier,
		publisher:          publisher,
		txManager:          txManager,
		locker:             locker,
		metrics:            metrics,
		timeProvider:       &RealTimeProvider{},
		advanceBookingDays: advanceBookingDays,
		logger:             logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
// Пара (слот, дата) сериализуется блокировкой по ключу внутри процесса;
// между экземплярами двойное бронирование отсекает частичный уникальный индекс
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%s, shop=%s, slot=%s, service=%s, date=%s",
		req.CustomerID, req.ShopID, req.SlotID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Бронирует только сам клиент
	if req.CallerID != req.CustomerID {
		uc.logger.Warn("CreateBooking: caller=%s is not customer=%s", req.CallerID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	date := domain.DateOf(req.Date)
	now := uc.timeProvider.Now()

	var (
		result  *domain.Booking
		slot    *domain.TimeSlot
		service *domain.Service
	)

	// 3. Проверки допуска и запись в одной транзакции
	admit := func(txCtx context.Context) error {
		// 3.1. Магазин блокируется на чтение: переключение режима дождется коммита
		shop, err := uc.shopRepo.ShareLockByID(txCtx, req.ShopID)
		if err != nil {
			if errors.Is(err, shopRepo.ErrShopNotFound) {
				return ErrShopNotFound
			}
			return fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
		}

		// 3.2. Режим работы читается из хранилища в момент допуска
		if !shop.WorkModeOn {
			return ErrShopClosed
		}

		// 3.3. Слот принадлежит магазину
		slot, err = uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
		if slot.ShopID != req.ShopID {
			return ErrSlotNotFound
		}

		// 3.4. Дата
		if err := validateDate(date, now, uc.advanceBookingDays); err != nil {
			return err
		}

		// 3.5. Услуга принадлежит магазину
		service, err = uc.serviceRepo.GetByID(txCtx, req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if service.ShopID != req.ShopID {
			return ErrServiceNotFound
		}

		// 3.6. Слот свободен на дату
		taken, err := uc.bookingRepo.ExistsActive(txCtx, req.SlotID, date)
		if err != nil {
			return fmt.Errorf("%w: failed to check slot availability: %v", ErrInternal, err)
		}
		if taken {
			return ErrSlotUnavailable
		}

		// 3.7. Создаем бронирование
		result, err = uc.bookingRepo.Create(txCtx, &domain.Booking{
			ID:            uuid.New(),
			ShopID:        req.ShopID,
			SlotID:        req.SlotID,
			ServiceID:     req.ServiceID,
			CustomerID:    req.CustomerID,
			BookingDate:   date,
			Status:        domain.StatusPending,
			PaymentStatus: domain.DefaultPaymentStatus,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 3.8. Уведомляем магазин
		message := fmt.Sprintf("Новое бронирование на %s, %s-%s: %s",
			date.Format(domain.DateFormat), slot.Start, slot.End, service.Name)
		if _, err := uc.notifier.Emit(txCtx, req.ShopID, domain.NotificationBookingCreated, message,
			domain.NotificationLinks{BookingID: &result.ID}); err != nil {
			return fmt.Errorf("%w: failed to emit notification: %v", ErrInternal, err)
		}

		return nil
	}

	// Блокировка (слот, дата) держится только на время транзакции,
	// событие публикуется уже без неё
	err := uc.locker.WithLock(lockKey(req.SlotID, date.Format(domain.DateFormat)), func() error {
		return uc.txManager.Do(ctx, admit)
	})
	if err != nil {
		uc.logRejection(req, err)
		return nil, err
	}

	uc.metrics.IncBookingCreated()
	uc.publisher.PublishBookingEvent(ctx, domain.EventBookingCreated, result)

	uc.logger.Info("CreateBooking: booking id=%s created for customer=%s, shop=%s", result.ID, req.CustomerID, req.ShopID)

	return &Response{
		ID:            result.ID,
		ShopID:        result.ShopID,
		SlotID:        result.SlotID,
		ServiceID:     result.ServiceID,
		CustomerID:    result.CustomerID,
		BookingDate:   result.BookingDate,
		StartTime:     slot.Start,
		EndTime:       slot.End,
		Status:        string(result.Status),
		PaymentStatus: result.PaymentStatus,
		ServiceName:   service.Name,
		ServicePrice:  service.Price,
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}

func (uc *UseCase) logRejection(req *Request, err error) {
	if errors.Is(err, ErrInternal) {
		uc.logger.Error("CreateBooking: failed for customer=%s, shop=%s: %v", req.CustomerID, req.ShopID, err)
		return
	}

	if reason := RejectionReason(err); reason != "" {
		uc.metrics.IncBookingRejected(reason)
	}
	uc.logger.Warn("CreateBooking: rejected for customer=%s, shop=%s, slot=%s: %v", req.CustomerID, req.ShopID, req.SlotID, err)
}

func lockKey(slotID uuid.UUID, date string) string {
	return "slot:" + slotID.String() + "|" + date
}
