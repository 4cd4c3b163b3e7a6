package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/booking"
	shopRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shop"
)

func newBooking(slotID uuid.UUID, date time.Time) *domain.Booking {
	return &domain.Booking{
		ID:            uuid.New(),
		ShopID:        uuid.New(),
		SlotID:        slotID,
		ServiceID:     uuid.New(),
		CustomerID:    uuid.New(),
		BookingDate:   date,
		Status:        domain.StatusPending,
		PaymentStatus: domain.DefaultPaymentStatus,
	}
}

func TestBookingRepository_ActiveSlotUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Bookings()
	slotID := uuid.New()
	date := time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC)

	first, err := repo.Create(ctx, newBooking(slotID, date))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Seq)

	_, err = repo.Create(ctx, newBooking(slotID, date))
	assert.ErrorIs(t, err, bookingRepo.ErrSlotTaken)

	// другая дата того же слота свободна
	_, err = repo.Create(ctx, newBooking(slotID, date.AddDate(0, 0, 1)))
	require.NoError(t, err)

	// после отмены слот освобождается
	_, err = repo.UpdateStatus(ctx, first.ID, domain.StatusPending, domain.StatusCanceled)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking(slotID, date))
	require.NoError(t, err)
}

func TestBookingRepository_UpdateStatusConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Bookings()

	b, err := repo.Create(ctx, newBooking(uuid.New(), time.Now()))
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, b.ID, domain.StatusConfirmed, domain.StatusCompleted)
	assert.ErrorIs(t, err, bookingRepo.ErrStatusChanged)

	updated, err := repo.UpdateStatus(ctx, b.ID, domain.StatusPending, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
}

func TestTxManager_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tx := store.TxManager()
	errAbort := errors.New("abort")

	shop := &domain.Shop{ID: uuid.New(), Name: "Barber"}
	_, err := store.Shops().Create(ctx, shop)
	require.NoError(t, err)

	slotID := uuid.New()
	date := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	err = tx.Do(ctx, func(txCtx context.Context) error {
		if _, err := store.Shops().ToggleWorkMode(txCtx, shop.ID); err != nil {
			return err
		}
		if _, err := store.Bookings().Create(txCtx, newBooking(slotID, date)); err != nil {
			return err
		}
		if _, err := store.Notifications().Create(txCtx, &domain.Notification{ID: uuid.New(), TargetID: shop.ID}); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	got, err := store.Shops().GetByID(ctx, shop.ID)
	require.NoError(t, err)
	assert.False(t, got.WorkModeOn)

	exists, err := store.Bookings().ExistsActive(ctx, slotID, date)
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := store.Notifications().CountUnread(ctx, shop.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTxManager_AfterCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tx := store.TxManager()
	calls := 0

	err := tx.Do(ctx, func(txCtx context.Context) error {
		tx.AfterCommit(txCtx, func() { calls++ })
		return errors.New("rejected")
	})
	require.Error(t, err)
	assert.Zero(t, calls)

	err = tx.Do(ctx, func(txCtx context.Context) error {
		return tx.Do(txCtx, func(inner context.Context) error {
			tx.AfterCommit(inner, func() {
				// хук выполняется без блокировки хранилища
				_, err := store.Shops().Create(ctx, &domain.Shop{ID: uuid.New(), Name: "shop", Address: "addr"})
				assert.NoError(t, err)
				calls++
			})
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	tx.AfterCommit(ctx, func() { calls++ })
	assert.Equal(t, 2, calls)
}

func TestTxManager_ReadOnlyRejectsWrites(t *testing.T) {
	store := NewStore()

	err := store.TxManager().DoReadOnly(context.Background(), func(ctx context.Context) error {
		_, err := store.Shops().Create(ctx, &domain.Shop{ID: uuid.New()})
		return err
	})
	assert.ErrorIs(t, err, ErrReadOnlyTx)
}

func TestShopRepository_Errors(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Shops()
	id := uuid.New()

	_, err := repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, shopRepo.ErrShopNotFound)

	_, err = repo.Create(ctx, &domain.Shop{ID: id})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Shop{ID: id})
	assert.ErrorIs(t, err, shopRepo.ErrShopAlreadyExists)
}

func TestNotificationRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Notifications()
	target := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &domain.Notification{ID: uuid.New(), TargetID: target, Message: string(rune('a' + i))})
		require.NoError(t, err)
	}

	list, err := repo.ListByTarget(ctx, target)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].Message)
	assert.Equal(t, "a", list[2].Message)

	changed, err := repo.MarkAllRead(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(3), changed)

	changed, err = repo.MarkAllRead(ctx, target)
	require.NoError(t, err)
	assert.Zero(t, changed)
}
