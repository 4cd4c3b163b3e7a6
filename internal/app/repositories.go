package app

import (
	"context"

	bookingRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/booking"
	chatRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/chat"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/memory"
	notificationRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/notification"
	reviewRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/review"
	shopRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shop"
	shopServiceRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/shopservice"
	slotRepo "github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/catalog"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/chat"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/notifications"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/reviews"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/shops"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/slots"
	createBooking "github.com/m04kA/SMC-ShopBookingService/internal/usecase/create_booking"
	getAvailableSlots "github.com/m04kA/SMC-ShopBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ShopBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShopBookingService/pkg/txmanager"
)

// Хранилища, которыми пользуются сразу несколько сервисов

type ShopStore interface {
	shops.ShopRepository
	slots.ShopRepository
	catalog.ShopRepository
	createBooking.ShopRepository
	getAvailableSlots.ShopRepository
	reviews.ShopRepository
}

type SlotStore interface {
	slots.SlotRepository
	createBooking.SlotRepository
	getAvailableSlots.SlotRepository
}

type ServiceStore interface {
	catalog.ServiceRepository
	createBooking.ServiceRepository
}

type BookingStore interface {
	bookings.BookingRepository
	slots.BookingRepository
	catalog.BookingRepository
	chat.BookingRepository
	createBooking.BookingRepository
	getAvailableSlots.BookingRepository
	reviews.BookingRepository
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	AfterCommit(ctx context.Context, fn func())
}

// Repositories набор репозиториев одного бэкенда хранения
type Repositories struct {
	Shops         ShopStore
	Slots         SlotStore
	Services      ServiceStore
	Bookings      BookingStore
	Notifications notifications.NotificationRepository
	Chats         chat.ChatRepository
	Reviews       reviews.ReviewRepository
	TxManager     TxManager
}

// NewPostgresRepositories репозитории поверх postgres
func NewPostgresRepositories(db *dbmetrics.DB) *Repositories {
	return &Repositories{
		Shops:         shopRepo.NewRepository(db),
		Slots:         slotRepo.NewRepository(db),
		Services:      shopServiceRepo.NewRepository(db),
		Bookings:      bookingRepo.NewRepository(db),
		Notifications: notificationRepo.NewRepository(db),
		Chats:         chatRepo.NewRepository(db),
		Reviews:       reviewRepo.NewRepository(db),
		TxManager:     txmanager.NewTransactionManager(db),
	}
}

// NewMemoryRepositories репозитории in-memory хранилища
func NewMemoryRepositories(store *memory.Store) *Repositories {
	return &Repositories{
		Shops:         store.Shops(),
		Slots:         store.Slots(),
		Services:      store.Services(),
		Bookings:      store.Bookings(),
		Notifications: store.Notifications(),
		Chats:         store.Chats(),
		Reviews:       store.Reviews(),
		TxManager:     store.TxManager(),
	}
}
