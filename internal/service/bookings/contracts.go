package bookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (*domain.Booking, error)
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
	IncBookingTransition(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
