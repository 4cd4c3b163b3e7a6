package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	shopRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shop"
	slotRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/slots/models"
	"github.com/m04kA/SMC-ShopBookingService/pkg/types"
)

// Service реестр слотов магазина
// Изменения слотов одного магазина сериализуются блокировкой по ключу
// и блокировкой строки магазина в транзакции
type Service struct {
	slotRepo     SlotRepository
	shopRepo     ShopRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	locker       KeyLocker
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	shopRepo ShopRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	locker KeyLocker,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:     slotRepo,
		shopRepo:     shopRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		locker:       locker,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Add добавляет слот магазину
func (s *Service) Add(ctx context.Context, callerID, shopID uuid.UUID, req *models.SlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Add: shop=%s, window=%s-%s", shopID, req.StartTime, req.EndTime)

	if callerID != shopID {
		s.logger.Warn("Add: caller=%s is not shop id=%s", callerID, shopID)
		return nil, ErrAccessDenied
	}

	start, end, err := parseWindow(req)
	if err != nil {
		s.logger.Warn("Add: validation failed for shop=%s: %v", shopID, err)
		return nil, err
	}

	slot := &domain.TimeSlot{
		ID:     uuid.New(),
		ShopID: shopID,
		Start:  start,
		End:    end,
	}

	var created *domain.TimeSlot
	err = s.withShopLock(ctx, shopID, func(txCtx context.Context) error {
		if err := s.checkOverlap(txCtx, slot); err != nil {
			return err
		}

		created, err = s.slotRepo.Create(txCtx, slot)
		if err != nil {
			return fmt.Errorf("%w: Add - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logResult("Add", shopID, err)
		return nil, err
	}

	s.logger.Info("Add: slot id=%s created for shop=%s", created.ID, shopID)
	return models.FromDomainSlot(created), nil
}

// Update меняет окно слота
func (s *Service) Update(ctx context.Context, callerID, shopID, slotID uuid.UUID, req *models.SlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Update: shop=%s, slot=%s, window=%s-%s", shopID, slotID, req.StartTime, req.EndTime)

	if callerID != shopID {
		s.logger.Warn("Update: caller=%s is not shop id=%s", callerID, shopID)
		return nil, ErrAccessDenied
	}

	start, end, err := parseWindow(req)
	if err != nil {
		s.logger.Warn("Update: validation failed for slot=%s: %v", slotID, err)
		return nil, err
	}

	var updated *domain.TimeSlot
	err = s.withShopLock(ctx, shopID, func(txCtx context.Context) error {
		slot, err := s.getOwnSlot(txCtx, shopID, slotID)
		if err != nil {
			return err
		}

		slot.Start = start
		slot.End = end
		if err := s.checkOverlap(txCtx, slot); err != nil {
			return err
		}

		updated, err = s.slotRepo.Update(txCtx, slot)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logResult("Update", shopID, err)
		return nil, err
	}

	s.logger.Info("Update: slot id=%s updated", slotID)
	return models.FromDomainSlot(updated), nil
}

// Delete удаляет слот, если на него нет активных бронирований с сегодняшней даты
// Завершенные и отмененные бронирования сохраняют ссылку на удаленный слот
func (s *Service) Delete(ctx context.Context, callerID, shopID, slotID uuid.UUID) error {
	s.logger.Info("Delete: shop=%s, slot=%s", shopID, slotID)

	if callerID != shopID {
		s.logger.Warn("Delete: caller=%s is not shop id=%s", callerID, shopID)
		return ErrAccessDenied
	}

	today := domain.DateOf(s.timeProvider.Now())

	err := s.withShopLock(ctx, shopID, func(txCtx context.Context) error {
		if _, err := s.getOwnSlot(txCtx, shopID, slotID); err != nil {
			return err
		}

		inUse, err := s.bookingRepo.HasActiveSince(txCtx, domain.ActiveBookingsFilter{
			SlotID:   &slotID,
			FromDate: today,
		})
		if err != nil {
			return fmt.Errorf("%w: Delete - check bookings: %v", ErrInternal, err)
		}
		if inUse {
			return ErrSlotInUse
		}

		if err := s.slotRepo.Delete(txCtx, slotID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logResult("Delete", shopID, err)
		return err
	}

	s.logger.Info("Delete: slot id=%s deleted", slotID)
	return nil
}

// List возвращает слоты магазина по возрастанию начала
func (s *Service) List(ctx context.Context, shopID uuid.UUID) (*models.SlotListResponse, error) {
	if _, err := s.shopRepo.GetByID(ctx, shopID); err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			s.logger.Warn("List: shop id=%s not found", shopID)
			return nil, ErrShopNotFound
		}
		s.logger.Error("List: failed to get shop id=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: List - get shop: %v", ErrInternal, err)
	}

	list, err := s.slotRepo.ListByShop(ctx, shopID)
	if err != nil {
		s.logger.Error("List: repository error for shop=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlotList(list), nil
}

// withShopLock выполняет fn в транзакции под блокировкой магазина
func (s *Service) withShopLock(ctx context.Context, shopID uuid.UUID, fn func(txCtx context.Context) error) error {
	unlock := s.locker.Lock("shop-slots:" + shopID.String())
	defer unlock()

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.shopRepo.LockByID(txCtx, shopID); err != nil {
			if errors.Is(err, shopRepo.ErrShopNotFound) {
				return ErrShopNotFound
			}
			return fmt.Errorf("%w: lock shop: %v", ErrInternal, err)
		}
		return fn(txCtx)
	})
}

func (s *Service) getOwnSlot(ctx context.Context, shopID, slotID uuid.UUID) (*domain.TimeSlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: get slot: %v", ErrInternal, err)
	}
	if slot.ShopID != shopID {
		return nil, ErrSlotNotFound
	}
	return slot, nil
}

// checkOverlap проверяет пересечение с остальными слотами магазина
func (s *Service) checkOverlap(ctx context.Context, slot *domain.TimeSlot) error {
	existing, err := s.slotRepo.ListByShop(ctx, slot.ShopID)
	if err != nil {
		return fmt.Errorf("%w: list slots: %v", ErrInternal, err)
	}

	for _, other := range existing {
		if other.ID == slot.ID {
			continue
		}
		if slot.Overlaps(other) {
			return fmt.Errorf("%w: %s-%s overlaps %s-%s", ErrSlotOverlap, slot.Start, slot.End, other.Start, other.End)
		}
	}
	return nil
}

func (s *Service) logResult(op string, shopID uuid.UUID, err error) {
	if errors.Is(err, ErrInternal) {
		s.logger.Error("%s: failed for shop=%s: %v", op, shopID, err)
		return
	}
	s.logger.Warn("%s: rejected for shop=%s: %v", op, shopID, err)
}

func parseWindow(req *models.SlotRequest) (types.TimeString, types.TimeString, error) {
	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return "", "", fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return "", "", fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}
	if !start.Before(end) {
		return "", "", ErrInvalidTimeRange
	}
	return start, end, nil
}
