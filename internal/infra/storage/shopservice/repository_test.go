package shopservice

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
)

const selectServiceSQL = "SELECT id, shop_id, name, price, duration_minutes, description, created_at, updated_at " +
	"FROM services WHERE id = $1"

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

func TestRepository_GetByID(t *testing.T) {
	t.Run("without description", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		id, shopID := uuid.New(), uuid.New()
		now := time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC)

		mock.ExpectQuery("^" + regexp.QuoteMeta(selectServiceSQL) + "$").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(serviceColumns).
				AddRow(id.String(), shopID.String(), "Комплексная мойка", 1500.5, 90, nil, now, now))

		service, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, shopID, service.ShopID)
		assert.Equal(t, 1500.5, service.Price)
		assert.Equal(t, 90, service.DurationMinutes)
		assert.Nil(t, service.Description)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(selectServiceSQL)).
			WillReturnRows(sqlmock.NewRows(serviceColumns))

		_, err := repo.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})
}

func TestRepository_UpdateMissing(t *testing.T) {
	repo, mock := newMockRepository(t)
	service := &domain.Service{ID: uuid.New(), Name: "Полировка", Price: 3000, DurationMinutes: 120}

	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE services SET name = $1, price = $2, duration_minutes = $3, description = $4, updated_at = NOW() "+
			"WHERE id = $5 RETURNING created_at, updated_at",
	)).
		WithArgs("Полировка", float64(3000), int64(120), sqlmock.AnyArg(), service.ID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

	_, err := repo.Update(context.Background(), service)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestRepository_Delete(t *testing.T) {
	query := "^" + regexp.QuoteMeta("DELETE FROM services WHERE id = $1") + "$"

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		id := uuid.New()

		mock.ExpectExec(query).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), id))
	})

	t.Run("nothing deleted", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), uuid.New()), ErrServiceNotFound)
	})
}
