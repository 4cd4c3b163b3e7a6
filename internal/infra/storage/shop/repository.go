package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-ShopBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShopBookingService/pkg/psqlbuilder"
)

var shopColumns = []string{
	"id",
	"name",
	"address",
	"contact_number",
	"description",
	"work_mode_on",
	"created_at",
	"updated_at",
}

// Repository репозиторий магазинов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория магазинов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create регистрирует магазин
func (r *Repository) Create(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("shops").
		Columns("id", "name", "address", "contact_number", "description", "work_mode_on").
		Values(shop.ID, shop.Name, shop.Address, shop.ContactNumber, shop.Description, shop.WorkModeOn).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&shop.CreatedAt, &shop.UpdatedAt)
	if err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return nil, ErrShopAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return shop, nil
}

// GetByID получает магазин по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	return r.get(ctx, id, "", "GetByID")
}

// LockByID получает магазин с блокировкой FOR UPDATE
// Используется для сериализации изменений слотов магазина, требует транзакции
func (r *Repository) LockByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	return r.get(ctx, id, "FOR UPDATE", "LockByID")
}

// ShareLockByID получает магазин с блокировкой FOR SHARE
// Переключение режима работы ждёт завершения транзакций, которые держат эту блокировку
func (r *Repository) ShareLockByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	return r.get(ctx, id, "FOR SHARE", "ShareLockByID")
}

func (r *Repository) get(ctx context.Context, id uuid.UUID, lock string, op string) (*domain.Shop, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(shopColumns...).
		From("shops").
		Where(squirrel.Eq{"id": id})

	if lock != "" && dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix(lock)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	shop, err := scanShop(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan shop: %v", ErrScanRow, op, err)
	}

	return shop, nil
}

// Update обновляет профиль магазина (режим работы не меняется)
func (r *Repository) Update(ctx context.Context, shop *domain.Shop) (*domain.Shop, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("shops").
		Set("name", shop.Name).
		Set("address", shop.Address).
		Set("contact_number", shop.ContactNumber).
		Set("description", shop.Description).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": shop.ID}).
		Suffix("RETURNING " + strings.Join(shopColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanShop(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return updated, nil
}

// ToggleWorkMode атомарно инвертирует режим работы и возвращает новое значение
func (r *Repository) ToggleWorkMode(ctx context.Context, id uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("shops").
		Set("work_mode_on", squirrel.Expr("NOT work_mode_on")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING work_mode_on").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ToggleWorkMode - build update query: %v", ErrBuildQuery, err)
	}

	var workModeOn bool
	err = executor.QueryRowContext(ctx, query, args...).Scan(&workModeOn)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrShopNotFound
	}
	if err != nil {
		return false, fmt.Errorf("%w: ToggleWorkMode - execute update: %v", ErrExecQuery, err)
	}

	return workModeOn, nil
}

func scanShop(row *sql.Row) (*domain.Shop, error) {
	var (
		shop        domain.Shop
		description sql.NullString
	)

	err := row.Scan(
		&shop.ID,
		&shop.Name,
		&shop.Address,
		&shop.ContactNumber,
		&description,
		&shop.WorkModeOn,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		shop.Description = &description.String
	}

	return &shop, nil
}
