package shops

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// ShopRepository интерфейс репозитория магазинов
type ShopRepository interface {
	Create(ctx context.Context, shop *domain.Shop) (*domain.Shop, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	LockByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	Update(ctx context.Context, shop *domain.Shop) (*domain.Shop, error)
	ToggleWorkMode(ctx context.Context, id uuid.UUID) (bool, error)
}

// Notifier создает уведомления в текущей транзакции
type Notifier interface {
	Emit(ctx context.Context, targetID uuid.UUID, notificationType domain.NotificationType, message string, links domain.NotificationLinks) (*domain.Notification, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
