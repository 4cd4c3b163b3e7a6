package slot

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	"github.com/m04kA/SMC-ShopBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShopBookingService/pkg/types"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})

	return NewRepository(dbmetrics.Wrap(sqlDB, nil)), mock
}

func TestRepository_ListByShopOrdered(t *testing.T) {
	repo, mock := newMockRepository(t)
	shopID := uuid.New()
	now := time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("^" + regexp.QuoteMeta(
		"SELECT id, shop_id, start_time, end_time, created_at, updated_at FROM time_slots "+
			"WHERE shop_id = $1 ORDER BY start_time ASC, end_time ASC",
	) + "$").
		WithArgs(shopID).
		WillReturnRows(sqlmock.NewRows(slotColumns).
			AddRow(uuid.NewString(), shopID.String(), "09:00", "10:00", now, now).
			AddRow(uuid.NewString(), shopID.String(), "10:00", "11:30", now, now))

	slots, err := repo.ListByShop(context.Background(), shopID)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, types.TimeString("09:00"), slots[0].Start)
	assert.Equal(t, types.TimeString("11:30"), slots[1].End)
}

func TestRepository_UpdateMissing(t *testing.T) {
	repo, mock := newMockRepository(t)
	slot := &domain.TimeSlot{ID: uuid.New(), Start: "12:00", End: "13:00"}

	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE time_slots SET start_time = $1, end_time = $2, updated_at = NOW() WHERE id = $3 RETURNING created_at, updated_at",
	)).
		WithArgs("12:00", "13:00", slot.ID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

	_, err := repo.Update(context.Background(), slot)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestRepository_Delete(t *testing.T) {
	query := "^" + regexp.QuoteMeta("DELETE FROM time_slots WHERE id = $1") + "$"

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		id := uuid.New()

		mock.ExpectExec(query).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), id))
	})

	t.Run("nothing deleted", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), uuid.New()), ErrSlotNotFound)
	})
}
