package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*domain.Service, error)
	Update(ctx context.Context, service *domain.Service) (*domain.Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ShopRepository интерфейс репозитория магазинов
type ShopRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	LockByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	HasActiveSince(ctx context.Context, filter domain.ActiveBookingsFilter) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
