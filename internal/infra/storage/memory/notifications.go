package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/notification"
)

// NotificationRepository уведомления в памяти
type NotificationRepository struct {
	s *Store
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	err := r.s.write(ctx, func(onRollback func(func())) error {
		r.s.notificationSeq++
		n.Seq = r.s.notificationSeq
		n.CreatedAt = r.s.now()

		stored := *n
		r.s.notifications[n.ID] = &stored
		r.s.notificationsFor[n.TargetID] = append(r.s.notificationsFor[n.TargetID], &stored)

		onRollback(func() {
			delete(r.s.notifications, stored.ID)
			list := r.s.notificationsFor[stored.TargetID]
			r.s.notificationsFor[stored.TargetID] = list[:len(list)-1]
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var result *domain.Notification
	err := r.s.read(ctx, func() error {
		n, ok := r.s.notifications[id]
		if !ok {
			return notificationRepo.ErrNotificationNotFound
		}
		cp := *n
		result = &cp
		return nil
	})
	return result, err
}

// ListByTarget новые первыми
func (r *NotificationRepository) ListByTarget(ctx context.Context, targetID uuid.UUID) ([]*domain.Notification, error) {
	result := make([]*domain.Notification, 0)
	err := r.s.read(ctx, func() error {
		list := r.s.notificationsFor[targetID]
		for i := len(list) - 1; i >= 0; i-- {
			cp := *list[i]
			result = append(result, &cp)
		}
		return nil
	})
	return result, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, targetID uuid.UUID) (int, error) {
	var count int
	err := r.s.read(ctx, func() error {
		for _, n := range r.s.notificationsFor[targetID] {
			if !n.IsRead {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func(onRollback func(func())) error {
		n, ok := r.s.notifications[id]
		if !ok {
			return notificationRepo.ErrNotificationNotFound
		}
		prev := n.IsRead
		n.IsRead = true
		onRollback(func() { n.IsRead = prev })
		return nil
	})
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, targetID uuid.UUID) (int64, error) {
	var changed int64
	err := r.s.write(ctx, func(onRollback func(func())) error {
		marked := make([]*domain.Notification, 0)
		for _, n := range r.s.notificationsFor[targetID] {
			if !n.IsRead {
				n.IsRead = true
				marked = append(marked, n)
			}
		}
		changed = int64(len(marked))
		onRollback(func() {
			for _, n := range marked {
				n.IsRead = false
			}
		})
		return nil
	})
	return changed, err
}
