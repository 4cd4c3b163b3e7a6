package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	shopRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shop"
)

// UseCase use case для получения свободных слотов магазина на дату
type UseCase struct {
	shopRepo           ShopRepository
	slotRepo           SlotRepository
	bookingRepo        BookingRepository
	txManager          TransactionManager
	timeProvider       TimeProvider
	advanceBookingDays int
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	shopRepo ShopRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	advanceBookingDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		shopRepo:           shopRepo,
		slotRepo:           slotRepo,
		bookingRepo:        bookingRepo,
		txManager:          txManager,
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

// Execute выполняет use case получения свободных слотов
// Результат носит справочный характер: окончательное решение принимает создание бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: shop=%s, date=%s", req.ShopID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	date := domain.DateOf(req.Date)

	// 2. Валидация даты
	if err := validateDate(date, now, uc.advanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Магазин, его слоты и активные бронирования на дату читаем одним снимком
	var (
		shop      *domain.Shop
		timeSlots []*domain.TimeSlot
		bookings  []*domain.Booking
	)
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		shop, err = uc.shopRepo.GetByID(txCtx, req.ShopID)
		if err != nil {
			if errors.Is(err, shopRepo.ErrShopNotFound) {
				return ErrShopNotFound
			}
			return fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
		}

		timeSlots, err = uc.slotRepo.ListByShop(txCtx, req.ShopID)
		if err != nil {
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}

		bookings, err = uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			ShopID: &req.ShopID,
			From:   &date,
			To:     &date,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrShopNotFound) {
			uc.logger.Warn("GetAvailableSlots: shop id=%s not found", req.ShopID)
		} else {
			uc.logger.Error("GetAvailableSlots: shop=%s: %v", req.ShopID, err)
		}
		return nil, err
	}

	// 4. Вычисляем доступность для каждого слота
	slots := markAvailability(timeSlots, bookings, shop.WorkModeOn, date, now)

	uc.logger.Info("GetAvailableSlots: %d slots for shop=%s, date=%s (work mode on=%t)",
		len(slots), req.ShopID, date.Format(domain.DateFormat), shop.WorkModeOn)

	return &Response{
		Date:       date,
		ShopID:     req.ShopID,
		WorkModeOn: shop.WorkModeOn,
		Slots:      slots,
	}, nil
}
