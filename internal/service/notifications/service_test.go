package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ShopBookingService/pkg/logger"
	"github.com/m04kA/SMC-ShopBookingService/pkg/metrics"
)

func newTestService() *Service {
	store := memory.NewStore()
	var m *metrics.Metrics
	return NewService(store.Notifications(), store.TxManager(), m, logger.NewNop())
}

func TestService_EmitAndList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	target := uuid.New()
	bookingID := uuid.New()

	_, err := svc.Emit(ctx, target, domain.NotificationBookingCreated, "Новое бронирование", domain.NotificationLinks{BookingID: &bookingID})
	require.NoError(t, err)
	_, err = svc.Emit(ctx, target, domain.NotificationProfileUpdated, "Профиль обновлен", domain.NotificationLinks{})
	require.NoError(t, err)

	list, err := svc.ListFor(ctx, target, target)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, 2, list.UnreadCount)
	// новые первыми
	assert.Equal(t, string(domain.NotificationProfileUpdated), list.Items[0].Type)
	assert.Equal(t, &bookingID, list.Items[1].BookingID)
}

func TestService_EmitValidation(t *testing.T) {
	svc := newTestService()

	_, err := svc.Emit(context.Background(), uuid.Nil, domain.NotificationBookingCreated, "x", domain.NotificationLinks{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Emit(context.Background(), uuid.New(), domain.NotificationBookingCreated, "", domain.NotificationLinks{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_MarkRead(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	target := uuid.New()

	n, err := svc.Emit(ctx, target, domain.NotificationBookingCreated, "msg", domain.NotificationLinks{})
	require.NoError(t, err)

	t.Run("чужое уведомление", func(t *testing.T) {
		err := svc.MarkRead(ctx, uuid.New(), n.ID)
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("не найдено", func(t *testing.T) {
		err := svc.MarkRead(ctx, target, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("идемпотентно", func(t *testing.T) {
		require.NoError(t, svc.MarkRead(ctx, target, n.ID))
		require.NoError(t, svc.MarkRead(ctx, target, n.ID))

		count, err := svc.UnreadCount(ctx, target, target)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestService_MarkAllRead(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	target := uuid.New()
	other := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Emit(ctx, target, domain.NotificationMessageReceived, "msg", domain.NotificationLinks{})
		require.NoError(t, err)
	}
	_, err := svc.Emit(ctx, other, domain.NotificationMessageReceived, "msg", domain.NotificationLinks{})
	require.NoError(t, err)

	_, err = svc.MarkAllRead(ctx, other, target)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	resp, err := svc.MarkAllRead(ctx, target, target)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Marked)

	list, err := svc.ListFor(ctx, target, target)
	require.NoError(t, err)
	assert.Equal(t, 0, list.UnreadCount)

	otherList, err := svc.ListFor(ctx, other, other)
	require.NoError(t, err)
	assert.Equal(t, 1, otherList.UnreadCount)
}

func TestService_UnreadCountMatchesItemsUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	target := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			n, err := svc.Emit(ctx, target, domain.NotificationMessageReceived, "msg", domain.NotificationLinks{})
			if err == nil {
				_ = svc.MarkRead(ctx, target, n.ID)
			}
		}()
		go func() {
			defer wg.Done()
			list, err := svc.ListFor(ctx, target, target)
			if !assert.NoError(t, err) {
				return
			}
			unread := 0
			for _, item := range list.Items {
				if !item.IsRead {
					unread++
				}
			}
			assert.Equal(t, unread, list.UnreadCount)
		}()
	}
	wg.Wait()

	list, err := svc.ListFor(ctx, target, target)
	require.NoError(t, err)
	assert.Len(t, list.Items, 20)
	assert.Equal(t, 0, list.UnreadCount)
}

type countingMetrics struct {
	mu      sync.Mutex
	emitted map[string]int
}

func (m *countingMetrics) IncNotificationEmitted(notificationType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emitted == nil {
		m.emitted = make(map[string]int)
	}
	m.emitted[notificationType]++
}

func (m *countingMetrics) count(notificationType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emitted[notificationType]
}

func TestService_EmitMetricFollowsCommit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := &countingMetrics{}
	svc := NewService(store.Notifications(), store.TxManager(), m, logger.NewNop())
	target := uuid.New()
	errRejected := errors.New("rejected")

	// откат транзакции события: ни уведомления, ни метрики
	err := store.TxManager().Do(ctx, func(txCtx context.Context) error {
		_, err := svc.Emit(txCtx, target, domain.NotificationBookingCreated, "msg", domain.NotificationLinks{})
		require.NoError(t, err)
		assert.Zero(t, m.count(string(domain.NotificationBookingCreated)))
		return errRejected
	})
	require.ErrorIs(t, err, errRejected)
	assert.Zero(t, m.count(string(domain.NotificationBookingCreated)))

	count, err := svc.UnreadCount(ctx, target, target)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = store.TxManager().Do(ctx, func(txCtx context.Context) error {
		_, err := svc.Emit(txCtx, target, domain.NotificationBookingCreated, "msg", domain.NotificationLinks{})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.count(string(domain.NotificationBookingCreated)))

	// вне транзакции счётчик растёт сразу
	_, err = svc.Emit(ctx, target, domain.NotificationProfileUpdated, "msg", domain.NotificationLinks{})
	require.NoError(t, err)
	assert.Equal(t, 1, m.count(string(domain.NotificationProfileUpdated)))
}
