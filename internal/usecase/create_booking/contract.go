package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// ShopRepository интерфейс репозитория магазинов
type ShopRepository interface {
	ShareLockByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TimeSlot, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ExistsActive(ctx context.Context, slotID uuid.UUID, date time.Time) (bool, error)
}

// Notifier создает уведомления в текущей транзакции
type Notifier interface {
	Emit(ctx context.Context, targetID uuid.UUID, notificationType domain.NotificationType, message string, links domain.NotificationLinks) (*domain.Notification, error)
}

// EventPublisher публикует события бронирований после коммита
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, key string, booking *domain.Booking)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// KeyLocker сериализует операции по ключу внутри процесса
type KeyLocker interface {
	WithLock(key string, fn func() error) error
}

// Metrics доменные метрики бронирований
type Metrics interface {
	IncBookingCreated()
	IncBookingRejected(reason string)
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
