package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/handlers"
	createBookingHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/create_booking"
	createServiceHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/create_service"
	createReviewHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/create_review"
	createShopHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/create_shop"
	createSlotHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/create_slot"
	deleteReviewHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/delete_review"
	deleteServiceHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/delete_service"
	deleteSlotHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/delete_slot"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/get_customer_bookings"
	getShopHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/get_shop"
	getShopBookingsHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/get_shop_bookings"
	getUnreadCountHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/get_unread_count"
	listMessagesHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/list_messages"
	listNotificationsHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/list_notifications"
	listServicesHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/list_services"
	listShopReviewsHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/list_shop_reviews"
	listSlotsHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/list_slots"
	markAllNotificationsReadHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/mark_all_notifications_read"
	markChatReadHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/mark_chat_read"
	markNotificationReadHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/mark_notification_read"
	openChatRoomHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/open_chat_room"
	postMessageHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/post_message"
	toggleWorkModeHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/toggle_work_mode"
	updateBookingStatusHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/update_booking_status"
	updatePaymentStatusHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/update_payment_status"
	updateReviewHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/update_review"
	updateServiceHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/update_service"
	updateShopHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/update_shop"
	updateSlotHandler "github.com/m04kA/SMC-ShopBookingService/internal/api/handlers/update_slot"
	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/catalog"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/chat"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/notifications"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/reviews"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/shops"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/slots"
	createBookingUC "github.com/m04kA/SMC-ShopBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-ShopBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ShopBookingService/pkg/keymutex"
	"github.com/m04kA/SMC-ShopBookingService/pkg/logger"
	"github.com/m04kA/SMC-ShopBookingService/pkg/metrics"
)

// EventPublisher публикация событий бронирований после коммита
type EventPublisher interface {
	createBookingUC.EventPublisher
	bookings.EventPublisher
}

// Options параметры сборки приложения
type Options struct {
	AdvanceBookingDays int
	MaxMessageLength   int
	// Metrics может быть nil, тогда метрики не пишутся
	Metrics *metrics.Metrics
	// RateLimiter может быть nil, тогда частота запросов не ограничивается
	RateLimiter *middleware.RateLimiter
}

// App сервисы и use case приложения
type App struct {
	Shops         *shops.Service
	Slots         *slots.Service
	Catalog       *catalog.Service
	Bookings      *bookings.Service
	Notifications *notifications.Service
	Chat          *chat.Service
	Reviews       *reviews.Service
	CreateBooking *createBookingUC.UseCase
	FreeSlots     *getAvailableSlotsUC.UseCase

	opts   Options
	logger *logger.Logger
}

// New собирает сервисы поверх репозиториев одного бэкенда
func New(repos *Repositories, publisher EventPublisher, opts Options, log *logger.Logger) *App {
	locker := keymutex.New()

	notificationSvc := notifications.NewService(repos.Notifications, repos.TxManager, opts.Metrics, log)

	return &App{
		Shops:         shops.NewService(repos.Shops, notificationSvc, repos.TxManager, log),
		Slots:         slots.NewService(repos.Slots, repos.Shops, repos.Bookings, repos.TxManager, locker, log),
		Catalog:       catalog.NewService(repos.Services, repos.Shops, repos.Bookings, repos.TxManager, log),
		Bookings:      bookings.NewService(repos.Bookings, notificationSvc, publisher, repos.TxManager, locker, opts.Metrics, log),
		Notifications: notificationSvc,
		Chat: chat.NewService(repos.Chats, repos.Bookings, notificationSvc, repos.TxManager, locker,
			opts.Metrics, opts.MaxMessageLength, log),
		Reviews: reviews.NewService(repos.Reviews, repos.Shops, repos.Bookings, notificationSvc, repos.TxManager, log),
		CreateBooking: createBookingUC.NewUseCase(
			repos.Shops,
			repos.Slots,
			repos.Services,
			repos.Bookings,
			notificationSvc,
			publisher,
			repos.TxManager,
			locker,
			opts.Metrics,
			opts.AdvanceBookingDays,
			log,
		),
		FreeSlots: getAvailableSlotsUC.NewUseCase(
			repos.Shops,
			repos.Slots,
			repos.Bookings,
			repos.TxManager,
			opts.AdvanceBookingDays,
			log,
		),
		opts:   opts,
		logger: log,
	}
}

// Router HTTP маршруты /api/v1, /internal и /health
func (a *App) Router() *mux.Router {
	log := a.logger

	// Магазины
	createShop := createShopHandler.NewHandler(a.Shops, log)
	getShop := getShopHandler.NewHandler(a.Shops, log)
	updateShop := updateShopHandler.NewHandler(a.Shops, log)
	toggleWorkMode := toggleWorkModeHandler.NewHandler(a.Shops, log)

	// Слоты и услуги
	createSlot := createSlotHandler.NewHandler(a.Slots, log)
	listSlots := listSlotsHandler.NewHandler(a.Slots, log)
	updateSlot := updateSlotHandler.NewHandler(a.Slots, log)
	deleteSlot := deleteSlotHandler.NewHandler(a.Slots, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(a.FreeSlots, log)
	createService := createServiceHandler.NewHandler(a.Catalog, log)
	listServices := listServicesHandler.NewHandler(a.Catalog, log)
	updateService := updateServiceHandler.NewHandler(a.Catalog, log)
	deleteService := deleteServiceHandler.NewHandler(a.Catalog, log)

	// Бронирования
	createBooking := createBookingHandler.NewHandler(a.CreateBooking, log)
	getBooking := getBookingHandler.NewHandler(a.Bookings, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(a.Bookings, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(a.Bookings, log)
	getShopBookings := getShopBookingsHandler.NewHandler(a.Bookings, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(a.Bookings, log)

	// Уведомления
	listNotifications := listNotificationsHandler.NewHandler(a.Notifications, log)
	getUnreadCount := getUnreadCountHandler.NewHandler(a.Notifications, log)
	markNotificationRead := markNotificationReadHandler.NewHandler(a.Notifications, log)
	markAllNotificationsRead := markAllNotificationsReadHandler.NewHandler(a.Notifications, log)

	// Чаты
	openChatRoom := openChatRoomHandler.NewHandler(a.Chat, log)
	postMessage := postMessageHandler.NewHandler(a.Chat, log)
	listMessages := listMessagesHandler.NewHandler(a.Chat, log)
	markChatRead := markChatReadHandler.NewHandler(a.Chat, log)

	// Отзывы
	createReview := createReviewHandler.NewHandler(a.Reviews, log)
	listShopReviews := listShopReviewsHandler.NewHandler(a.Reviews, log)
	updateReview := updateReviewHandler.NewHandler(a.Reviews, log)
	deleteReview := deleteReviewHandler.NewHandler(a.Reviews, log)

	r := mux.NewRouter()

	if a.opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(a.opts.Metrics))
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/shops/{shopId}", getShop.Handle).Methods(http.MethodGet)
	api.HandleFunc("/shops/{shopId}/slots", listSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/shops/{shopId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/shops/{shopId}/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/shops/{shopId}/reviews", listShopReviews.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	if a.opts.RateLimiter != nil {
		protected.Use(a.opts.RateLimiter.Middleware)
	}
	protected.Use(middleware.Auth)

	// --- Магазин ---
	protected.HandleFunc("/shops", createShop.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/shops/{shopId}", updateShop.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/shops/{shopId}/work-mode", toggleWorkMode.Handle).Methods(http.MethodPatch)

	// --- Слоты ---
	protected.HandleFunc("/shops/{shopId}/slots", createSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/shops/{shopId}/slots/{slotId}", updateSlot.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/shops/{shopId}/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)

	// --- Услуги ---
	protected.HandleFunc("/shops/{shopId}/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/shops/{shopId}/services/{serviceId}", updateService.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/shops/{shopId}/services/{serviceId}", deleteService.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/shops/{shopId}/bookings", getShopBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Уведомления ---
	protected.HandleFunc("/notifications/{targetId}", listNotifications.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{targetId}/unread-count", getUnreadCount.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId}/read", markNotificationRead.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/notifications/{targetId}/read-all", markAllNotificationsRead.Handle).Methods(http.MethodPut)

	// --- Чаты ---
	protected.HandleFunc("/chat-rooms", openChatRoom.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/chat-rooms/{roomId}/messages", postMessage.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/chat-rooms/{roomId}/messages", listMessages.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/chat-rooms/{roomId}/read", markChatRead.Handle).Methods(http.MethodPut)

	// --- Отзывы ---
	protected.HandleFunc("/reviews", createReview.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reviews/{reviewId}", updateReview.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/reviews/{reviewId}", deleteReview.Handle).Methods(http.MethodDelete)

	// ============================================================
	// INTERNAL ROUTES (платежный сервис)
	// ============================================================

	internal := r.PathPrefix("/internal").Subrouter()
	internal.HandleFunc("/bookings/{bookingId}/payment-status", updatePaymentStatus.Handle).Methods(http.MethodPatch)

	return r
}
