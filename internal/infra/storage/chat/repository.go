package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/pgerrors"
	"github.com/m04kA/SMC-ShopBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShopBookingService/pkg/psqlbuilder"
)

var roomColumns = []string{"id", "booking_id", "shop_id", "customer_id", "created_at"}

var messageColumns = []string{"id", "seq", "room_id", "sender_id", "content", "created_at"}

// Repository репозиторий чатов: комнаты, сообщения и курсоры прочтения
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория чатов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateRoom создает комнату
// Уникальность booking_id гарантирует одну комнату на бронирование,
// при конфликте возвращается ErrRoomExists
func (r *Repository) CreateRoom(ctx context.Context, room *domain.ChatRoom) (*domain.ChatRoom, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("chat_rooms").
		Columns("id", "booking_id", "shop_id", "customer_id").
		Values(room.ID, room.BookingID, room.ShopID, room.CustomerID).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateRoom - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&room.CreatedAt); err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return nil, ErrRoomExists
		}
		return nil, fmt.Errorf("%w: CreateRoom - execute insert: %v", ErrExecQuery, err)
	}

	return room, nil
}

// GetRoomByID получает комнату по ID
func (r *Repository) GetRoomByID(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error) {
	return r.getRoom(ctx, squirrel.Eq{"id": id}, "", "GetRoomByID")
}

// LockRoom получает комнату с блокировкой FOR UPDATE, требует транзакции
// Сериализует публикацию сообщений в комнату между инстансами
func (r *Repository) LockRoom(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error) {
	return r.getRoom(ctx, squirrel.Eq{"id": id}, "FOR UPDATE", "LockRoom")
}

// GetRoomByBookingID получает комнату бронирования
func (r *Repository) GetRoomByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.ChatRoom, error) {
	return r.getRoom(ctx, squirrel.Eq{"booking_id": bookingID}, "", "GetRoomByBookingID")
}

func (r *Repository) getRoom(ctx context.Context, where squirrel.Eq, lock string, op string) (*domain.ChatRoom, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(roomColumns...).From("chat_rooms").Where(where)
	if lock != "" && dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix(lock)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var room domain.ChatRoom
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&room.ID,
		&room.BookingID,
		&room.ShopID,
		&room.CustomerID,
		&room.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan room: %v", ErrScanRow, op, err)
	}

	return &room, nil
}

// LastMessageAt время последнего сообщения комнаты, nil если сообщений нет
func (r *Repository) LastMessageAt(ctx context.Context, roomID uuid.UUID) (*time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("MAX(created_at)").
		From("chat_messages").
		Where(squirrel.Eq{"room_id": roomID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: LastMessageAt - build select query: %v", ErrBuildQuery, err)
	}

	var last sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&last); err != nil {
		return nil, fmt.Errorf("%w: LastMessageAt - scan result: %v", ErrScanRow, err)
	}
	if !last.Valid {
		return nil, nil
	}

	return &last.Time, nil
}

// CreateMessage сохраняет сообщение. CreatedAt задаётся сервисом
func (r *Repository) CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("chat_messages").
		Columns("id", "room_id", "sender_id", "content", "created_at").
		Values(msg.ID, msg.RoomID, msg.SenderID, msg.Content, msg.CreatedAt).
		Suffix("RETURNING seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateMessage - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&msg.Seq); err != nil {
		return nil, fmt.Errorf("%w: CreateMessage - execute insert: %v", ErrExecQuery, err)
	}

	return msg, nil
}

// ListMessages сообщения комнаты в порядке создания
// since - если задан, возвращаются только сообщения, созданные строго позже
func (r *Repository) ListMessages(ctx context.Context, roomID uuid.UUID, since *time.Time) ([]*domain.Message, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(messageColumns...).
		From("chat_messages").
		Where(squirrel.Eq{"room_id": roomID})

	if since != nil {
		builder = builder.Where(squirrel.Gt{"created_at": *since})
	}

	query, args, err := builder.OrderBy("created_at ASC", "seq ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListMessages - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListMessages - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.Seq,
			&msg.RoomID,
			&msg.SenderID,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListMessages - scan message: %v", ErrScanRow, err)
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListMessages - rows iteration: %v", ErrScanRow, err)
	}

	return messages, nil
}

// GetReadCursor курсор прочтения участника, nil если участник ещё ничего не читал
func (r *Repository) GetReadCursor(ctx context.Context, roomID, participantID uuid.UUID) (*time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("read_until").
		From("chat_read_cursors").
		Where(squirrel.Eq{"room_id": roomID, "participant_id": participantID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetReadCursor - build select query: %v", ErrBuildQuery, err)
	}

	var readUntil time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&readUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetReadCursor - scan cursor: %v", ErrScanRow, err)
	}

	return &readUntil, nil
}

// SaveReadCursor сдвигает курсор прочтения вперёд. Курсор никогда не сдвигается назад
func (r *Repository) SaveReadCursor(ctx context.Context, roomID, participantID uuid.UUID, readUntil time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("chat_read_cursors").
		Columns("room_id", "participant_id", "read_until").
		Values(roomID, participantID, readUntil).
		Suffix("ON CONFLICT (room_id, participant_id) DO UPDATE SET " +
			"read_until = GREATEST(chat_read_cursors.read_until, EXCLUDED.read_until)").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveReadCursor - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SaveReadCursor - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// CountUnread количество сообщений собеседника, созданных позже курсора читателя
func (r *Repository) CountUnread(ctx context.Context, roomID, readerID uuid.UUID, after *time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("COUNT(*)").
		From("chat_messages").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.NotEq{"sender_id": readerID})

	if after != nil {
		builder = builder.Where(squirrel.Gt{"created_at": *after})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountUnread - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountUnread - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}
