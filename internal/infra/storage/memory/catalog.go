package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shopservice"
	slotRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/slot"
)

// SlotRepository слоты в памяти
type SlotRepository struct {
	s *Store
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	err := r.s.write(ctx, func(onRollback func(func())) error {
		now := r.s.now()
		slot.CreatedAt = now
		slot.UpdatedAt = now
		stored := *slot
		r.s.slots[slot.ID] = &stored
		onRollback(func() { delete(r.s.slots, slot.ID) })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TimeSlot, error) {
	var result *domain.TimeSlot
	err := r.s.read(ctx, func() error {
		slot, ok := r.s.slots[id]
		if !ok {
			return slotRepo.ErrSlotNotFound
		}
		cp := *slot
		result = &cp
		return nil
	})
	return result, err
}

func (r *SlotRepository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.TimeSlot, error) {
	result := make([]*domain.TimeSlot, 0)
	err := r.s.read(ctx, func() error {
		for _, slot := range r.s.slots {
			if slot.ShopID == shopID {
				cp := *slot
				result = append(result, &cp)
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool {
		if result[i].Start != result[j].Start {
			return result[i].Start < result[j].Start
		}
		return result[i].End < result[j].End
	})
	return result, err
}

func (r *SlotRepository) Update(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	var result *domain.TimeSlot
	err := r.s.write(ctx, func(onRollback func(func())) error {
		stored, ok := r.s.slots[slot.ID]
		if !ok {
			return slotRepo.ErrSlotNotFound
		}
		prev := *stored
		stored.Start = slot.Start
		stored.End = slot.End
		stored.UpdatedAt = r.s.now()
		onRollback(func() { *stored = prev })
		cp := *stored
		result = &cp
		return nil
	})
	return result, err
}

func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func(onRollback func(func())) error {
		stored, ok := r.s.slots[id]
		if !ok {
			return slotRepo.ErrSlotNotFound
		}
		delete(r.s.slots, id)
		onRollback(func() { r.s.slots[id] = stored })
		return nil
	})
}

// ServiceRepository услуги в памяти
type ServiceRepository struct {
	s *Store
}

func (r *ServiceRepository) Create(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	err := r.s.write(ctx, func(onRollback func(func())) error {
		now := r.s.now()
		service.CreatedAt = now
		service.UpdatedAt = now
		stored := *service
		r.s.services[service.ID] = &stored
		onRollback(func() { delete(r.s.services, service.ID) })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return service, nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	var result *domain.Service
	err := r.s.read(ctx, func() error {
		service, ok := r.s.services[id]
		if !ok {
			return serviceRepo.ErrServiceNotFound
		}
		cp := *service
		result = &cp
		return nil
	})
	return result, err
}

func (r *ServiceRepository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.Service, error) {
	result := make([]*domain.Service, 0)
	err := r.s.read(ctx, func() error {
		for _, service := range r.s.services {
			if service.ShopID == shopID {
				cp := *service
				result = append(result, &cp)
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Name < result[j].Name
	})
	return result, err
}

func (r *ServiceRepository) Update(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	var result *domain.Service
	err := r.s.write(ctx, func(onRollback func(func())) error {
		stored, ok := r.s.services[service.ID]
		if !ok {
			return serviceRepo.ErrServiceNotFound
		}
		prev := *stored
		stored.Name = service.Name
		stored.Price = service.Price
		stored.DurationMinutes = service.DurationMinutes
		stored.Description = service.Description
		stored.UpdatedAt = r.s.now()
		onRollback(func() { *stored = prev })
		cp := *stored
		result = &cp
		return nil
	})
	return result, err
}

func (r *ServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func(onRollback func(func())) error {
		stored, ok := r.s.services[id]
		if !ok {
			return serviceRepo.ErrServiceNotFound
		}
		delete(r.s.services, id)
		onRollback(func() { r.s.services[id] = stored })
		return nil
	})
}
