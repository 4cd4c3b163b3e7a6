package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// ChatRepository интерфейс репозитория комнат и сообщений
type ChatRepository interface {
	CreateRoom(ctx context.Context, room *domain.ChatRoom) (*domain.ChatRoom, error)
	GetRoomByID(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error)
	LockRoom(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error)
	GetRoomByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.ChatRoom, error)
	LastMessageAt(ctx context.Context, roomID uuid.UUID) (*time.Time, error)
	CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	ListMessages(ctx context.Context, roomID uuid.UUID, since *time.Time) ([]*domain.Message, error)
	GetReadCursor(ctx context.Context, roomID, participantID uuid.UUID) (*time.Time, error)
	SaveReadCursor(ctx context.Context, roomID, participantID uuid.UUID, readUntil time.Time) error
	CountUnread(ctx context.Context, roomID, readerID uuid.UUID, after *time.Time) (int, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

// Notifier создает уведомления в текущей транзакции
type Notifier interface {
	Emit(ctx context.Context, targetID uuid.UUID, notificationType domain.NotificationType, message string, links domain.NotificationLinks) (*domain.Notification, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// KeyLocker сериализует операции по ключу внутри процесса
type KeyLocker interface {
	Lock(key string) (unlock func())
}

// Metrics метрики чата
type Metrics interface {
	IncChatMessagePosted()
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
