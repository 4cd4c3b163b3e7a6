package booking

import (
	"context"
	"errors"
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

const insertBookingSQL = "INSERT INTO bookings " +
	"(id,shop_id,slot_id,service_id,customer_id,booking_date,status,payment_status) " +
	"VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING seq, created_at, updated_at"

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

func newPendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:            uuid.New(),
		ShopID:        uuid.New(),
		SlotID:        uuid.New(),
		ServiceID:     uuid.New(),
		CustomerID:    uuid.New(),
		BookingDate:   time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:        domain.StatusPending,
		PaymentStatus: domain.DefaultPaymentStatus,
	}
}

func bookingRow(b *domain.Booking, status domain.BookingStatus, bookingDate time.Time) *sqlmock.Rows {
	now := time.Date(2030, 5, 20, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(bookingColumns).AddRow(
		b.ID.String(), int64(7), b.ShopID.String(), b.SlotID.String(), b.ServiceID.String(), b.CustomerID.String(),
		bookingDate, string(status), b.PaymentStatus, now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("returns seq and timestamps", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		b := newPendingBooking()
		created := time.Date(2030, 5, 20, 10, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta(insertBookingSQL)).
			WithArgs(b.ID, b.ShopID, b.SlotID, b.ServiceID, b.CustomerID, "2030-06-01", b.Status, b.PaymentStatus).
			WillReturnRows(sqlmock.NewRows([]string{"seq", "created_at", "updated_at"}).AddRow(int64(42), created, created))

		result, err := repo.Create(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, int64(42), result.Seq)
		assert.Equal(t, created, result.CreatedAt)
	})

	t.Run("unique violation means slot taken", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		b := newPendingBooking()

		mock.ExpectQuery(regexp.QuoteMeta(insertBookingSQL)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_bookings_slot_date_active"})

		_, err := repo.Create(ctx, b)
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("other driver errors", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(insertBookingSQL)).
			WillReturnError(&pq.Error{Code: "23503"})

		_, err := repo.Create(ctx, newPendingBooking())
		assert.ErrorIs(t, err, ErrExecQuery)
		assert.NotErrorIs(t, err, ErrSlotTaken)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	updateSQL := regexp.QuoteMeta("UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3 RETURNING id, seq,")

	t.Run("conditional update applied", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		b := newPendingBooking()

		mock.ExpectQuery(updateSQL).
			WithArgs(domain.StatusConfirmed, b.ID, domain.StatusPending).
			WillReturnRows(bookingRow(b, domain.StatusConfirmed, time.Date(2030, 6, 1, 0, 0, 0, 0, time.FixedZone("MSK", 3*3600))))

		updated, err := repo.UpdateStatus(ctx, b.ID, domain.StatusPending, domain.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, updated.Status)
		assert.Equal(t, int64(7), updated.Seq)
		// дата бронирования приводится к полуночи UTC
		assert.Equal(t, time.Date(2030, 5, 31, 0, 0, 0, 0, time.UTC), updated.BookingDate)
	})

	t.Run("status moved concurrently", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		id := uuid.New()

		mock.ExpectQuery(updateSQL).
			WithArgs(domain.StatusCanceled, id, domain.StatusConfirmed).
			WillReturnRows(sqlmock.NewRows(bookingColumns))

		_, err := repo.UpdateStatus(ctx, id, domain.StatusConfirmed, domain.StatusCanceled)
		assert.ErrorIs(t, err, ErrStatusChanged)
	})

	t.Run("driver error", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(updateSQL).WillReturnError(errors.New("connection reset"))

		_, err := repo.UpdateStatus(ctx, uuid.New(), domain.StatusPending, domain.StatusCanceled)
		assert.ErrorIs(t, err, ErrExecQuery)
	})
}

func TestRepository_UpdatePaymentStatusNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET payment_status = $1, updated_at = NOW() WHERE id = $2 RETURNING")).
		WithArgs("paid", id).
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := repo.UpdatePaymentStatus(context.Background(), id, "paid")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_ExistsActive(t *testing.T) {
	repo, mock := newMockRepository(t)
	slotID := uuid.New()

	mock.ExpectQuery("^" + regexp.QuoteMeta(
		"SELECT EXISTS ( SELECT 1 FROM bookings WHERE booking_date = $1 AND slot_id = $2 AND status <> $3 LIMIT 1 )",
	) + "$").
		WithArgs("2030-06-01", slotID, domain.StatusCanceled).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsActive(context.Background(), slotID, time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRepository_HasActiveSince(t *testing.T) {
	repo, mock := newMockRepository(t)
	serviceID := uuid.New()

	mock.ExpectQuery("^" + regexp.QuoteMeta(
		"SELECT EXISTS ( SELECT 1 FROM bookings WHERE status IN ($1,$2) AND booking_date >= $3 AND service_id = $4 LIMIT 1 )",
	) + "$").
		WithArgs(string(domain.StatusPending), string(domain.StatusConfirmed), "2030-06-01", serviceID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.HasActiveSince(context.Background(), domain.ActiveBookingsFilter{
		ServiceID: &serviceID,
		FromDate:  time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_ListFilter(t *testing.T) {
	ctx := context.Background()

	t.Run("requires shop or customer", func(t *testing.T) {
		repo, _ := newMockRepository(t)

		_, err := repo.List(ctx, domain.BookingsFilter{})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})

	t.Run("shop with status and period", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		b := newPendingBooking()
		status := domain.StatusPending
		from := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2030, 6, 30, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta(
			"FROM bookings WHERE shop_id = $1 AND status = $2 AND booking_date >= $3 AND booking_date <= $4 ORDER BY seq ASC",
		)).
			WithArgs(b.ShopID, status, "2030-06-01", "2030-06-30").
			WillReturnRows(bookingRow(b, status, from))

		list, err := repo.List(ctx, domain.BookingsFilter{ShopID: &b.ShopID, Status: &status, From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, b.ID, list[0].ID)
		assert.Equal(t, from, list[0].BookingDate)
	})
}
