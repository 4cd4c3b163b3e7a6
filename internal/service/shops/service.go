package shops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	shopRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shop"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/shops/models"
)

const msgProfileUpdated = "Профиль магазина обновлен"

// Service сервис профиля магазина и режима работы
type Service struct {
	shopRepo  ShopRepository
	notifier  Notifier
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса магазинов
func NewService(
	shopRepo ShopRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		shopRepo:  shopRepo,
		notifier:  notifier,
		txManager: txManager,
		logger:    logger,
	}
}

// Create регистрирует магазин. Идентификатор магазина - идентификатор вызывающего
// Новый магазин открыт для бронирований
func (s *Service) Create(ctx context.Context, callerID uuid.UUID, req *models.ShopRequest) (*models.ShopResponse, error) {
	s.logger.Info("Create: registering shop id=%s", callerID)

	if err := validateShopRequest(req); err != nil {
		s.logger.Warn("Create: validation failed for shop id=%s: %v", callerID, err)
		return nil, err
	}

	shop := &domain.Shop{
		ID:            callerID,
		Name:          strings.TrimSpace(req.Name),
		Address:       strings.TrimSpace(req.Address),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		Description:   req.Description,
		WorkModeOn:    true,
	}

	created, err := s.shopRepo.Create(ctx, shop)
	if err != nil {
		if errors.Is(err, shopRepo.ErrShopAlreadyExists) {
			s.logger.Warn("Create: shop id=%s already exists", callerID)
			return nil, ErrShopAlreadyExists
		}
		s.logger.Error("Create: repository error for shop id=%s: %v", callerID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: shop id=%s registered", created.ID)
	return models.FromDomainShop(created), nil
}

// GetByID возвращает публичный профиль магазина
func (s *Service) GetByID(ctx context.Context, shopID uuid.UUID) (*models.ShopResponse, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			s.logger.Warn("GetByID: shop id=%s not found", shopID)
			return nil, ErrShopNotFound
		}
		s.logger.Error("GetByID: repository error for shop id=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainShop(shop), nil
}

// Update обновляет профиль и уведомляет магазин в той же транзакции
func (s *Service) Update(ctx context.Context, callerID, shopID uuid.UUID, req *models.ShopRequest) (*models.ShopResponse, error) {
	s.logger.Info("Update: updating shop id=%s by caller=%s", shopID, callerID)

	if callerID != shopID {
		s.logger.Warn("Update: caller=%s is not shop id=%s", callerID, shopID)
		return nil, ErrAccessDenied
	}

	if err := validateShopRequest(req); err != nil {
		s.logger.Warn("Update: validation failed for shop id=%s: %v", shopID, err)
		return nil, err
	}

	var result *domain.Shop
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		shop, err := s.shopRepo.LockByID(txCtx, shopID)
		if err != nil {
			if errors.Is(err, shopRepo.ErrShopNotFound) {
				return ErrShopNotFound
			}
			return fmt.Errorf("%w: Update - lock shop: %v", ErrInternal, err)
		}

		shop.Name = strings.TrimSpace(req.Name)
		shop.Address = strings.TrimSpace(req.Address)
		shop.ContactNumber = strings.TrimSpace(req.ContactNumber)
		shop.Description = req.Description

		result, err = s.shopRepo.Update(txCtx, shop)
		if err != nil {
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		if _, err := s.notifier.Emit(txCtx, shopID, domain.NotificationProfileUpdated, msgProfileUpdated, domain.NotificationLinks{}); err != nil {
			return fmt.Errorf("%w: Update - emit notification: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrShopNotFound) {
			s.logger.Warn("Update: shop id=%s not found", shopID)
		} else {
			s.logger.Error("Update: failed to update shop id=%s: %v", shopID, err)
		}
		return nil, err
	}

	s.logger.Info("Update: shop id=%s updated", shopID)
	return models.FromDomainShop(result), nil
}

// ToggleWorkMode атомарно переключает режим работы и возвращает новое состояние
func (s *Service) ToggleWorkMode(ctx context.Context, callerID, shopID uuid.UUID) (*models.WorkModeResponse, error) {
	if callerID != shopID {
		s.logger.Warn("ToggleWorkMode: caller=%s is not shop id=%s", callerID, shopID)
		return nil, ErrAccessDenied
	}

	on, err := s.shopRepo.ToggleWorkMode(ctx, shopID)
	if err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			s.logger.Warn("ToggleWorkMode: shop id=%s not found", shopID)
			return nil, ErrShopNotFound
		}
		s.logger.Error("ToggleWorkMode: repository error for shop id=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: ToggleWorkMode - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ToggleWorkMode: shop id=%s workModeOn=%t", shopID, on)
	return &models.WorkModeResponse{ShopID: shopID, WorkModeOn: on}, nil
}

// IsOpen читает режим работы из хранилища без кэширования
func (s *Service) IsOpen(ctx context.Context, shopID uuid.UUID) (bool, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			return false, ErrShopNotFound
		}
		return false, fmt.Errorf("%w: IsOpen - repository error: %v", ErrInternal, err)
	}
	return shop.WorkModeOn, nil
}

func validateShopRequest(req *models.ShopRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len([]rune(name)) > domain.MaxShopNameLength {
		return fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if len([]rune(address)) > domain.MaxAddressLength {
		return fmt.Errorf("%w: address is too long", ErrInvalidInput)
	}

	if req.Description != nil && len([]rune(*req.Description)) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description is too long", ErrInvalidInput)
	}

	return nil
}
