package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/notifications/models"
)

// Service сервис уведомлений
// unreadCount всегда вычисляется из записей, отдельного счётчика нет
type Service struct {
	repo      NotificationRepository
	txManager TransactionManager
	metrics   Metrics
	logger    Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(
	repo NotificationRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		metrics:   metrics,
		logger:    logger,
	}
}

// Emit создает непрочитанное уведомление
// Вызывается внутри транзакции события: если она откатится, уведомления не будет
func (s *Service) Emit(
	ctx context.Context,
	targetID uuid.UUID,
	notificationType domain.NotificationType,
	message string,
	links domain.NotificationLinks,
) (*domain.Notification, error) {
	if targetID == uuid.Nil || message == "" {
		return nil, fmt.Errorf("%w: target and message are required", ErrInvalidInput)
	}

	n := &domain.Notification{
		ID:         uuid.New(),
		Type:       notificationType,
		TargetID:   targetID,
		Message:    message,
		BookingID:  links.BookingID,
		ChatRoomID: links.ChatRoomID,
		IsRead:     false,
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		s.logger.Error("Emit: failed to create notification type=%s target=%s: %v", notificationType, targetID, err)
		return nil, fmt.Errorf("%w: Emit - repository error: %v", ErrInternal, err)
	}

	// счётчик растёт только после фиксации транзакции события
	s.txManager.AfterCommit(ctx, func() {
		s.metrics.IncNotificationEmitted(string(notificationType))
	})
	s.logger.Info("Emit: notification id=%s type=%s target=%s", created.ID, notificationType, targetID)
	return created, nil
}

// ListFor возвращает уведомления получателя (новые первыми) и число непрочитанных
// Оба значения читаются в одной read-only транзакции
func (s *Service) ListFor(ctx context.Context, callerID, targetID uuid.UUID) (*models.NotificationListResponse, error) {
	if callerID != targetID {
		s.logger.Warn("ListFor: caller=%s is not target=%s", callerID, targetID)
		return nil, ErrAccessDenied
	}

	var (
		list   []*domain.Notification
		unread int
	)

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		list, err = s.repo.ListByTarget(txCtx, targetID)
		if err != nil {
			return err
		}
		unread, err = s.repo.CountUnread(txCtx, targetID)
		return err
	})
	if err != nil {
		s.logger.Error("ListFor: repository error for target=%s: %v", targetID, err)
		return nil, fmt.Errorf("%w: ListFor - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListFor: fetched %d notifications (%d unread) for target=%s", len(list), unread, targetID)
	return models.FromDomainNotificationList(list, unread), nil
}

// UnreadCount количество непрочитанных уведомлений получателя
func (s *Service) UnreadCount(ctx context.Context, callerID, targetID uuid.UUID) (int, error) {
	if callerID != targetID {
		return 0, ErrAccessDenied
	}

	count, err := s.repo.CountUnread(ctx, targetID)
	if err != nil {
		s.logger.Error("UnreadCount: repository error for target=%s: %v", targetID, err)
		return 0, fmt.Errorf("%w: UnreadCount - repository error: %v", ErrInternal, err)
	}

	return count, nil
}

// MarkRead помечает уведомление прочитанным. Повторный вызов успешен и ничего не меняет
func (s *Service) MarkRead(ctx context.Context, callerID, notificationID uuid.UUID) error {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			s.logger.Warn("MarkRead: notification id=%s not found", notificationID)
			return ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for notification id=%s: %v", notificationID, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}

	if n.TargetID != callerID {
		s.logger.Warn("MarkRead: caller=%s is not target of notification id=%s", callerID, notificationID)
		return ErrAccessDenied
	}

	if n.IsRead {
		return nil
	}

	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		s.logger.Error("MarkRead: failed to mark notification id=%s: %v", notificationID, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("MarkRead: notification id=%s marked as read", notificationID)
	return nil
}

// MarkAllRead помечает прочитанными все уведомления получателя
func (s *Service) MarkAllRead(ctx context.Context, callerID, targetID uuid.UUID) (*models.MarkAllReadResponse, error) {
	if callerID != targetID {
		s.logger.Warn("MarkAllRead: caller=%s is not target=%s", callerID, targetID)
		return nil, ErrAccessDenied
	}

	marked, err := s.repo.MarkAllRead(ctx, targetID)
	if err != nil {
		s.logger.Error("MarkAllRead: repository error for target=%s: %v", targetID, err)
		return nil, fmt.Errorf("%w: MarkAllRead - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("MarkAllRead: marked %d notifications for target=%s", marked, targetID)
	return &models.MarkAllReadResponse{Marked: marked}, nil
}
