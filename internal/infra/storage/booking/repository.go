package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-ShopBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShopBookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"seq",
	"shop_id",
	"slot_id",
	"service_id",
	"customer_id",
	"booking_date",
	"status",
	"payment_status",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование
// Даты передаются строкой YYYY-MM-DD, чтобы часовой пояс сессии не сдвигал день.
// Если в контексте передана активная транзакция, использует её.
// Уникальный индекс (slot_id, booking_date) WHERE status <> 'canceled' гарантирует,
// что даже параллельные транзакции разных инстансов не создадут второе активное
// бронирование на слот - в этом случае возвращается ErrSlotTaken
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"shop_id",
			"slot_id",
			"service_id",
			"customer_id",
			"booking_date",
			"status",
			"payment_status",
		).
		Values(
			booking.ID,
			booking.ShopID,
			booking.SlotID,
			booking.ServiceID,
			booking.CustomerID,
			booking.BookingDate.Format(domain.DateFormat),
			booking.Status,
			booking.PaymentStatus,
		).
		Suffix("RETURNING seq, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.Seq,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования магазина или клиента в порядке создания
// Поддерживает фильтрацию по:
// - Статусу (Status) - опционально
// - Периоду дат бронирования (From, To) - опционально, границы включительно
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if filter.ShopID == nil && filter.CustomerID == nil {
		return nil, ErrInvalidFilter
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).From("bookings")

	if filter.ShopID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"shop_id": *filter.ShopID})
	}
	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.From.Format(domain.DateFormat)})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.To.Format(domain.DateFormat)})
	}

	query, args, err := selectBuilder.OrderBy("seq ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// ExistsActive проверяет, есть ли не отменённое бронирование на слот и дату
func (r *Repository) ExistsActive(ctx context.Context, slotID uuid.UUID, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID, "booking_date": date.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"status": domain.StatusCanceled}).
		Limit(1).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsActive - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ExistsActive - scan result: %v", ErrScanRow, err)
	}

	return exists, nil
}

// HasActiveSince проверяет, есть ли pending/confirmed бронирования на слот или услугу
// с датой не раньше filter.FromDate
func (r *Repository) HasActiveSince(ctx context.Context, filter domain.ActiveBookingsFilter) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}

	builder := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"status": statuses}).
		Where(squirrel.GtOrEq{"booking_date": filter.FromDate.Format(domain.DateFormat)})

	if filter.SlotID != nil {
		builder = builder.Where(squirrel.Eq{"slot_id": *filter.SlotID})
	}
	if filter.ServiceID != nil {
		builder = builder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}

	query, args, err := builder.Limit(1).Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveSince - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasActiveSince - scan result: %v", ErrScanRow, err)
	}

	return exists, nil
}

// UpdateStatus меняет статус, только если текущий статус равен from
// Если статус уже изменён другой транзакцией, возвращает ErrStatusChanged
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusChanged
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// UpdatePaymentStatus сохраняет статус оплаты, полученный от платёжного сервиса
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", paymentStatus).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking

	err := row.Scan(
		&booking.ID,
		&booking.Seq,
		&booking.ShopID,
		&booking.SlotID,
		&booking.ServiceID,
		&booking.CustomerID,
		&booking.BookingDate,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.BookingDate = domain.DateOf(booking.BookingDate)
	return &booking, nil
}
