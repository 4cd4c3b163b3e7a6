package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// ErrReadOnlyTx запись внутри read-only транзакции
var ErrReadOnlyTx = errors.New("memory.store: write in read-only transaction")

type slotDateKey struct {
	slotID uuid.UUID
	date   string
}

type cursorKey struct {
	roomID        uuid.UUID
	participantID uuid.UUID
}

// Store хранилище в памяти с теми же контрактами, что и postgres-репозитории
// Одна RWMutex на всё хранилище: транзакция держит её целиком, поэтому
// проверка и запись внутри TxManager.Do атомарны
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	shops map[uuid.UUID]*domain.Shop

	slots    map[uuid.UUID]*domain.TimeSlot
	services map[uuid.UUID]*domain.Service

	bookings    []*domain.Booking
	bookingByID map[uuid.UUID]*domain.Booking
	activeSlots map[slotDateKey]uuid.UUID
	bookingSeq  int64

	notifications    map[uuid.UUID]*domain.Notification
	notificationsFor map[uuid.UUID][]*domain.Notification
	notificationSeq  int64

	rooms          map[uuid.UUID]*domain.ChatRoom
	roomsByBooking map[uuid.UUID]uuid.UUID
	messages       map[uuid.UUID][]*domain.Message
	messageSeq     int64
	cursors        map[cursorKey]time.Time

	reviews          map[uuid.UUID]*domain.Review
	reviewsByBooking map[uuid.UUID]uuid.UUID
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		now:              time.Now,
		shops:            make(map[uuid.UUID]*domain.Shop),
		slots:            make(map[uuid.UUID]*domain.TimeSlot),
		services:         make(map[uuid.UUID]*domain.Service),
		bookingByID:      make(map[uuid.UUID]*domain.Booking),
		activeSlots:      make(map[slotDateKey]uuid.UUID),
		notifications:    make(map[uuid.UUID]*domain.Notification),
		notificationsFor: make(map[uuid.UUID][]*domain.Notification),
		rooms:            make(map[uuid.UUID]*domain.ChatRoom),
		roomsByBooking:   make(map[uuid.UUID]uuid.UUID),
		messages:         make(map[uuid.UUID][]*domain.Message),
		cursors:          make(map[cursorKey]time.Time),
		reviews:          make(map[uuid.UUID]*domain.Review),
		reviewsByBooking: make(map[uuid.UUID]uuid.UUID),
	}
}

// SetClock подменяет источник времени для created_at/updated_at (для тестов)
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Shops репозиторий магазинов
func (s *Store) Shops() *ShopRepository {
	return &ShopRepository{s: s}
}

// Slots репозиторий слотов
func (s *Store) Slots() *SlotRepository {
	return &SlotRepository{s: s}
}

// Services репозиторий услуг
func (s *Store) Services() *ServiceRepository {
	return &ServiceRepository{s: s}
}

// Bookings репозиторий бронирований
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{s: s}
}

// Notifications репозиторий уведомлений
func (s *Store) Notifications() *NotificationRepository {
	return &NotificationRepository{s: s}
}

// Chats репозиторий чатов
func (s *Store) Chats() *ChatRepository {
	return &ChatRepository{s: s}
}

// Reviews репозиторий отзывов
func (s *Store) Reviews() *ReviewRepository {
	return &ReviewRepository{s: s}
}

// TxManager менеджер транзакций хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

type txKey struct{}

type txState struct {
	store       *Store
	readOnly    bool
	undo        []func()
	afterCommit []func()
}

func (t *txState) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

func (s *Store) txFrom(ctx context.Context) *txState {
	st, ok := ctx.Value(txKey{}).(*txState)
	if !ok || st.store != s {
		return nil
	}
	return st
}

// write выполняет изменение под блокировкой хранилища
// Внутри транзакции блокировка уже захвачена, а fn регистрирует откат через onRollback
func (s *Store) write(ctx context.Context, fn func(onRollback func(func())) error) error {
	if st := s.txFrom(ctx); st != nil {
		if st.readOnly {
			return ErrReadOnlyTx
		}
		return fn(st.onRollback)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(func(func()) {})
}

// read выполняет чтение под блокировкой хранилища
func (s *Store) read(ctx context.Context, fn func() error) error {
	if s.txFrom(ctx) != nil {
		return fn()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn()
}

// TxManager транзакции хранилища в памяти
// Do держит эксклюзивную блокировку на всё время fn и откатывает изменения при ошибке
type TxManager struct {
	s *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.s.txFrom(ctx) != nil {
		return fn(ctx)
	}

	st := &txState{store: m.s}
	if err := m.run(ctx, st, fn); err != nil {
		return err
	}

	// хуки выполняются после снятия блокировки хранилища
	for _, hook := range st.afterCommit {
		hook()
	}
	return nil
}

func (m *TxManager) run(ctx context.Context, st *txState, fn func(ctx context.Context) error) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	err := fn(context.WithValue(ctx, txKey{}, st))
	if err != nil {
		for i := len(st.undo) - 1; i >= 0; i-- {
			st.undo[i]()
		}
	}
	return err
}

// AfterCommit откладывает fn до успешного завершения внешней транзакции
// Вне пишущей транзакции fn вызывается сразу
func (m *TxManager) AfterCommit(ctx context.Context, fn func()) {
	st := m.s.txFrom(ctx)
	if st == nil || st.readOnly {
		fn()
		return
	}
	st.afterCommit = append(st.afterCommit, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

// DoReadOnly держит разделяемую блокировку: все чтения внутри fn видят один снимок
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.s.txFrom(ctx) != nil {
		return fn(ctx)
	}

	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	return fn(context.WithValue(ctx, txKey{}, &txState{store: m.s, readOnly: true}))
}
