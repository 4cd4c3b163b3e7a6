package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	shopRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shop"
	serviceRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shopservice"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/catalog/models"
)

// Service каталог услуг магазина
type Service struct {
	serviceRepo  ServiceRepository
	shopRepo     ShopRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	serviceRepo ServiceRepository,
	shopRepo ShopRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		serviceRepo:  serviceRepo,
		shopRepo:     shopRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Add добавляет услугу в каталог магазина
func (s *Service) Add(ctx context.Context, callerID, shopID uuid.UUID, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Add: shop=%s, name=%q", shopID, req.Name)

	if callerID != shopID {
		s.logger.Warn("Add: caller=%s is not shop id=%s", callerID, shopID)
		return nil, ErrAccessDenied
	}

	if err := validateServiceRequest(req); err != nil {
		s.logger.Warn("Add: validation failed for shop=%s: %v", shopID, err)
		return nil, err
	}

	if err := s.ensureShop(ctx, shopID); err != nil {
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, &domain.Service{
		ID:              uuid.New(),
		ShopID:          shopID,
		Name:            strings.TrimSpace(req.Name),
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Description:     req.Description,
	})
	if err != nil {
		s.logger.Error("Add: repository error for shop=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: Add - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Add: service id=%s created for shop=%s", created.ID, shopID)
	return models.FromDomainService(created), nil
}

// List возвращает услуги магазина
func (s *Service) List(ctx context.Context, shopID uuid.UUID) (*models.ServiceListResponse, error) {
	if err := s.ensureShop(ctx, shopID); err != nil {
		return nil, err
	}

	list, err := s.serviceRepo.ListByShop(ctx, shopID)
	if err != nil {
		s.logger.Error("List: repository error for shop=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(list), nil
}

// Update изменяет услугу. Существующие бронирования не пересчитываются
func (s *Service) Update(ctx context.Context, callerID, shopID, serviceID uuid.UUID, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: shop=%s, service=%s", shopID, serviceID)

	if callerID != shopID {
		s.logger.Warn("Update: caller=%s is not shop id=%s", callerID, shopID)
		return nil, ErrAccessDenied
	}

	if err := validateServiceRequest(req); err != nil {
		s.logger.Warn("Update: validation failed for service=%s: %v", serviceID, err)
		return nil, err
	}

	service, err := s.getOwnService(ctx, shopID, serviceID)
	if err != nil {
		return nil, err
	}

	service.Name = strings.TrimSpace(req.Name)
	service.Price = req.Price
	service.DurationMinutes = req.DurationMinutes
	service.Description = req.Description

	updated, err := s.serviceRepo.Update(ctx, service)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service=%s: %v", serviceID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: service id=%s updated", serviceID)
	return models.FromDomainService(updated), nil
}

// Delete удаляет услугу, если на неё нет активных бронирований с сегодняшней даты
func (s *Service) Delete(ctx context.Context, callerID, shopID, serviceID uuid.UUID) error {
	s.logger.Info("Delete: shop=%s, service=%s", shopID, serviceID)

	if callerID != shopID {
		s.logger.Warn("Delete: caller=%s is not shop id=%s", callerID, shopID)
		return ErrAccessDenied
	}

	today := domain.DateOf(s.timeProvider.Now())

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.shopRepo.LockByID(txCtx, shopID); err != nil {
			if errors.Is(err, shopRepo.ErrShopNotFound) {
				return ErrShopNotFound
			}
			return fmt.Errorf("%w: Delete - lock shop: %v", ErrInternal, err)
		}

		if _, err := s.getOwnService(txCtx, shopID, serviceID); err != nil {
			return err
		}

		inUse, err := s.bookingRepo.HasActiveSince(txCtx, domain.ActiveBookingsFilter{
			ServiceID: &serviceID,
			FromDate:  today,
		})
		if err != nil {
			return fmt.Errorf("%w: Delete - check bookings: %v", ErrInternal, err)
		}
		if inUse {
			return ErrServiceInUse
		}

		if err := s.serviceRepo.Delete(txCtx, serviceID); err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Delete: failed for service=%s: %v", serviceID, err)
		} else {
			s.logger.Warn("Delete: rejected for service=%s: %v", serviceID, err)
		}
		return err
	}

	s.logger.Info("Delete: service id=%s deleted", serviceID)
	return nil
}

func (s *Service) ensureShop(ctx context.Context, shopID uuid.UUID) error {
	if _, err := s.shopRepo.GetByID(ctx, shopID); err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			s.logger.Warn("shop id=%s not found", shopID)
			return ErrShopNotFound
		}
		s.logger.Error("failed to get shop id=%s: %v", shopID, err)
		return fmt.Errorf("%w: get shop: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) getOwnService(ctx context.Context, shopID, serviceID uuid.UUID) (*domain.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: get service: %v", ErrInternal, err)
	}
	if service.ShopID != shopID {
		return nil, ErrServiceNotFound
	}
	return service, nil
}

func validateServiceRequest(req *models.ServiceRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len([]rune(name)) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}
	if req.Price < 0 || math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}
	if req.DurationMinutes < domain.MinServiceDurationMinutes || req.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	if req.Description != nil && len([]rune(*req.Description)) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description is too long", ErrInvalidInput)
	}
	return nil
}
