package review

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	"github.com/m04kA/SMC-ShopBookingService/pkg/dbmetrics"
)

const insertReviewSQL = "INSERT INTO reviews (id,shop_id,booking_id,customer_id,rating,comment) " +
	"VALUES ($1,$2,$3,$4,$5,$6) RETURNING created_at, updated_at"

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

func newReview() *domain.Review {
	return &domain.Review{
		ID:         uuid.New(),
		ShopID:     uuid.New(),
		BookingID:  uuid.New(),
		CustomerID: uuid.New(),
		Rating:     5,
		Comment:    "Отлично помыли",
	}
}

func TestRepository_Create(t *testing.T) {
	t.Run("stored", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		review := newReview()
		now := time.Date(2030, 6, 2, 18, 0, 0, 0, time.UTC)

		mock.ExpectQuery("^"+regexp.QuoteMeta(insertReviewSQL)+"$").
			WithArgs(review.ID, review.ShopID, review.BookingID, review.CustomerID, int64(5), "Отлично помыли").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		created, err := repo.Create(context.Background(), review)
		require.NoError(t, err)
		assert.Equal(t, now, created.CreatedAt)
	})

	t.Run("second review for booking", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(insertReviewSQL)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "reviews_booking_id_key"})

		_, err := repo.Create(context.Background(), newReview())
		assert.ErrorIs(t, err, ErrReviewExists)
	})
}

func TestRepository_ListByShopNewestFirst(t *testing.T) {
	repo, mock := newMockRepository(t)
	shopID := uuid.New()
	older := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)

	mock.ExpectQuery("^" + regexp.QuoteMeta(
		"SELECT id, shop_id, booking_id, customer_id, rating, comment, created_at, updated_at "+
			"FROM reviews WHERE shop_id = $1 ORDER BY created_at DESC, id ASC",
	) + "$").
		WithArgs(shopID).
		WillReturnRows(sqlmock.NewRows(reviewColumns).
			AddRow(uuid.NewString(), shopID.String(), uuid.NewString(), uuid.NewString(), 4, "Быстро", newer, newer).
			AddRow(uuid.NewString(), shopID.String(), uuid.NewString(), uuid.NewString(), 2, "Долго ждал", older, older))

	reviews, err := repo.ListByShop(context.Background(), shopID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 4, reviews[0].Rating)
	assert.Equal(t, "Долго ждал", reviews[1].Comment)
}

func TestRepository_UpdateAndDeleteMissing(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"UPDATE reviews SET rating = $1, comment = $2, updated_at = NOW() WHERE id = $3 RETURNING created_at, updated_at",
		)).WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

		_, err := repo.Update(context.Background(), newReview())
		assert.ErrorIs(t, err, ErrReviewNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE id = $1")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), uuid.New()), ErrReviewNotFound)
	})
}
