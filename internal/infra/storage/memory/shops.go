package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	shopRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shop"
)

// ShopRepository магазины в памяти
type ShopRepository struct {
	s *Store
}

func (r *ShopRepository) Create(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	err := r.s.write(ctx, func(onRollback func(func())) error {
		if _, ok := r.s.shops[shop.ID]; ok {
			return shopRepo.ErrShopAlreadyExists
		}
		now := r.s.now()
		shop.CreatedAt = now
		shop.UpdatedAt = now
		stored := *shop
		r.s.shops[shop.ID] = &stored
		onRollback(func() { delete(r.s.shops, shop.ID) })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shop, nil
}

func (r *ShopRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	var result *domain.Shop
	err := r.s.read(ctx, func() error {
		shop, ok := r.s.shops[id]
		if !ok {
			return shopRepo.ErrShopNotFound
		}
		cp := *shop
		result = &cp
		return nil
	})
	return result, err
}

// LockByID в памяти эквивалентен GetByID: транзакция уже держит блокировку хранилища
func (r *ShopRepository) LockByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	return r.GetByID(ctx, id)
}

func (r *ShopRepository) ShareLockByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	return r.GetByID(ctx, id)
}

func (r *ShopRepository) Update(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	var result *domain.Shop
	err := r.s.write(ctx, func(onRollback func(func())) error {
		stored, ok := r.s.shops[shop.ID]
		if !ok {
			return shopRepo.ErrShopNotFound
		}
		prev := *stored
		stored.Name = shop.Name
		stored.Address = shop.Address
		stored.ContactNumber = shop.ContactNumber
		stored.Description = shop.Description
		stored.UpdatedAt = r.s.now()
		onRollback(func() { *stored = prev })
		cp := *stored
		result = &cp
		return nil
	})
	return result, err
}

func (r *ShopRepository) ToggleWorkMode(ctx context.Context, id uuid.UUID) (bool, error) {
	var result bool
	err := r.s.write(ctx, func(onRollback func(func())) error {
		stored, ok := r.s.shops[id]
		if !ok {
			return shopRepo.ErrShopNotFound
		}
		prev := *stored
		stored.WorkModeOn = !stored.WorkModeOn
		stored.UpdatedAt = r.s.now()
		onRollback(func() { *stored = prev })
		result = stored.WorkModeOn
		return nil
	})
	return result, err
}
