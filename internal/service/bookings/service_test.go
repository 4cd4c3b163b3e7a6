package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/notifications"
	"github.com/m04kA/SMC-ShopBookingService/pkg/keymutex"
	"github.com/m04kA/SMC-ShopBookingService/pkg/logger"
	"github.com/m04kA/SMC-ShopBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ShopBookingService/pkg/ptr"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, key string, _ *domain.Booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
}

// blockingPublisher задерживает публикацию, пока тест не отпустит release
type blockingPublisher struct {
	entered chan string
	release chan struct{}
}

func (p *blockingPublisher) PublishBookingEvent(_ context.Context, key string, _ *domain.Booking) {
	p.entered <- key
	<-p.release
}

type fixture struct {
	store         *memory.Store
	svc           *Service
	notifications *notifications.Service
	publisher     *recordingPublisher
	shopID        uuid.UUID
	customerID    uuid.UUID
}

func newFixture() *fixture {
	store := memory.NewStore()
	log := logger.NewNop()
	var m *metrics.Metrics

	notifier := notifications.NewService(store.Notifications(), store.TxManager(), m, log)
	publisher := &recordingPublisher{}

	return &fixture{
		store:         store,
		svc:           NewService(store.Bookings(), notifier, publisher, store.TxManager(), keymutex.New(), m, log),
		notifications: notifier,
		publisher:     publisher,
		shopID:        uuid.New(),
		customerID:    uuid.New(),
	}
}

func (f *fixture) seedBooking(t *testing.T, status domain.BookingStatus, date time.Time) *domain.Booking {
	t.Helper()
	b, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		ID:            uuid.New(),
		ShopID:        f.shopID,
		SlotID:        uuid.New(),
		ServiceID:     uuid.New(),
		CustomerID:    f.customerID,
		BookingDate:   date,
		Status:        status,
		PaymentStatus: domain.DefaultPaymentStatus,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) callerFor(actor domain.Actor) uuid.UUID {
	if actor == domain.ActorShop {
		return f.shopID
	}
	return f.customerID
}

func unread(t *testing.T, svc *notifications.Service, target uuid.UUID) int {
	t.Helper()
	count, err := svc.UnreadCount(context.Background(), target, target)
	require.NoError(t, err)
	return count
}

func TestService_TransitionTable(t *testing.T) {
	date := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	statuses := []domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCanceled}
	actors := []domain.Actor{domain.ActorShop, domain.ActorCustomer}

	legal := map[[2]domain.BookingStatus][]domain.Actor{
		{domain.StatusPending, domain.StatusConfirmed}:   {domain.ActorShop},
		{domain.StatusPending, domain.StatusCanceled}:    {domain.ActorShop, domain.ActorCustomer},
		{domain.StatusConfirmed, domain.StatusCanceled}:  {domain.ActorShop, domain.ActorCustomer},
		{domain.StatusConfirmed, domain.StatusCompleted}: {domain.ActorShop},
	}

	isLegal := func(from, to domain.BookingStatus, actor domain.Actor) bool {
		for _, a := range legal[[2]domain.BookingStatus{from, to}] {
			if a == actor {
				return true
			}
		}
		return false
	}

	for _, from := range statuses {
		for _, to := range statuses {
			for _, actor := range actors {
				from, to, actor := from, to, actor
				t.Run(string(from)+"->"+string(to)+"/"+string(actor), func(t *testing.T) {
					ctx := context.Background()
					f := newFixture()
					b := f.seedBooking(t, from, date)
					counterparty := b.Counterparty(actor)

					resp, err := f.svc.UpdateStatus(ctx, b.ID, f.callerFor(actor), &models.UpdateStatusRequest{
						Status: string(to),
						Actor:  string(actor),
					})

					if isLegal(from, to, actor) {
						require.NoError(t, err)
						assert.Equal(t, string(to), resp.Status)
						assert.Equal(t, 1, unread(t, f.notifications, counterparty))
						assert.Equal(t, 0, unread(t, f.notifications, f.callerFor(actor)))
						assert.Equal(t, []string{domain.EventKeyForStatus(to)}, f.publisher.keys)
						return
					}

					assert.ErrorIs(t, err, domain.ErrInvalidTransition)
					assert.Equal(t, 0, unread(t, f.notifications, counterparty))
					assert.Empty(t, f.publisher.keys)

					stored, err := f.store.Bookings().GetByID(ctx, b.ID)
					require.NoError(t, err)
					assert.Equal(t, from, stored.Status)
				})
			}
		}
	}
}

func TestService_UpdateStatusForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.seedBooking(t, domain.StatusPending, time.Now())

	// клиент не может действовать от имени магазина
	_, err := f.svc.UpdateStatus(ctx, b.ID, f.customerID, &models.UpdateStatusRequest{Status: "confirmed", Actor: "shop"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// посторонний не может отменить
	_, err = f.svc.UpdateStatus(ctx, b.ID, uuid.New(), &models.UpdateStatusRequest{Status: "canceled", Actor: "customer"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := f.store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestService_UpdateStatusValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.seedBooking(t, domain.StatusPending, time.Now())

	_, err := f.svc.UpdateStatus(ctx, b.ID, f.shopID, &models.UpdateStatusRequest{Status: "archived", Actor: "shop"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(ctx, b.ID, f.shopID, &models.UpdateStatusRequest{Status: "confirmed", Actor: "admin"})
	assert.ErrorIs(t, err, ErrInvalidActor)

	_, err = f.svc.UpdateStatus(ctx, uuid.New(), f.shopID, &models.UpdateStatusRequest{Status: "confirmed", Actor: "shop"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_ConcurrentCancelsLinearize(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.seedBooking(t, domain.StatusConfirmed, time.Now())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 10; i++ {
		actor := domain.ActorShop
		if i%2 == 0 {
			actor = domain.ActorCustomer
		}
		wg.Add(1)
		go func(actor domain.Actor) {
			defer wg.Done()
			_, err := f.svc.UpdateStatus(ctx, b.ID, f.callerFor(actor), &models.UpdateStatusRequest{
				Status: string(domain.StatusCanceled),
				Actor:  string(actor),
			})
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		}(actor)
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	total := unread(t, f.notifications, f.shopID) + unread(t, f.notifications, f.customerID)
	assert.Equal(t, 1, total)
}

func TestService_SlowPublishDoesNotHoldBookingLock(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.seedBooking(t, domain.StatusPending, time.Now())

	publisher := &blockingPublisher{entered: make(chan string, 4), release: make(chan struct{})}
	var m *metrics.Metrics
	svc := NewService(f.store.Bookings(), f.notifications, publisher, f.store.TxManager(), keymutex.New(), m, logger.NewNop())

	confirmErr := make(chan error, 1)
	go func() {
		_, err := svc.UpdateStatus(ctx, b.ID, f.shopID, &models.UpdateStatusRequest{
			Status: string(domain.StatusConfirmed),
			Actor:  string(domain.ActorShop),
		})
		confirmErr <- err
	}()

	select {
	case key := <-publisher.entered:
		assert.Equal(t, domain.EventKeyForStatus(domain.StatusConfirmed), key)
	case <-time.After(2 * time.Second):
		t.Fatal("confirm never reached publish")
	}

	// подтверждение висит на публикации, отмена по тому же бронированию не ждёт его
	cancelErr := make(chan error, 1)
	go func() {
		_, err := svc.UpdateStatus(ctx, b.ID, f.customerID, &models.UpdateStatusRequest{
			Status: string(domain.StatusCanceled),
			Actor:  string(domain.ActorCustomer),
		})
		cancelErr <- err
	}()

	select {
	case <-publisher.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("cancel waited for the confirm publish")
	}

	paymentErr := make(chan error, 1)
	go func() {
		_, err := svc.UpdatePaymentStatus(ctx, b.ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "refunded"})
		paymentErr <- err
	}()

	select {
	case key := <-publisher.entered:
		assert.Equal(t, domain.EventBookingPaymentUpdated, key)
	case <-time.After(2 * time.Second):
		t.Fatal("payment update waited for the confirm publish")
	}

	close(publisher.release)
	require.NoError(t, <-confirmErr)
	require.NoError(t, <-cancelErr)
	require.NoError(t, <-paymentErr)

	stored, err := f.store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, stored.Status)
	assert.Equal(t, "refunded", stored.PaymentStatus)
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.seedBooking(t, domain.StatusPending, time.Now())

	resp, err := f.svc.GetByID(ctx, b.ID, f.customerID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, resp.ID)

	_, err = f.svc.GetByID(ctx, b.ID, f.shopID)
	require.NoError(t, err)

	_, err = f.svc.GetByID(ctx, b.ID, uuid.New())
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(ctx, uuid.New(), f.shopID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_ListBookings(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	day := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)

	first := f.seedBooking(t, domain.StatusPending, day)
	second := f.seedBooking(t, domain.StatusConfirmed, day.AddDate(0, 0, 2))
	third := f.seedBooking(t, domain.StatusCanceled, day.AddDate(0, 0, 1))

	all, err := f.svc.GetShopBookings(ctx, &models.ListBookingsRequest{CallerID: f.shopID, OwnerID: f.shopID})
	require.NoError(t, err)
	require.Len(t, all.Bookings, 3)
	// порядок создания, а не даты
	assert.Equal(t, first.ID, all.Bookings[0].ID)
	assert.Equal(t, second.ID, all.Bookings[1].ID)
	assert.Equal(t, third.ID, all.Bookings[2].ID)

	confirmed, err := f.svc.GetCustomerBookings(ctx, &models.ListBookingsRequest{
		CallerID: f.customerID,
		OwnerID:  f.customerID,
		Status:   ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	require.Len(t, confirmed.Bookings, 1)
	assert.Equal(t, second.ID, confirmed.Bookings[0].ID)

	ranged, err := f.svc.GetShopBookings(ctx, &models.ListBookingsRequest{
		CallerID: f.shopID,
		OwnerID:  f.shopID,
		From:     ptr.Ptr(day.AddDate(0, 0, 1)),
		To:       ptr.Ptr(day.AddDate(0, 0, 1)),
	})
	require.NoError(t, err)
	require.Len(t, ranged.Bookings, 1)
	assert.Equal(t, third.ID, ranged.Bookings[0].ID)

	_, err = f.svc.GetShopBookings(ctx, &models.ListBookingsRequest{CallerID: f.customerID, OwnerID: f.shopID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetShopBookings(ctx, &models.ListBookingsRequest{
		CallerID: f.shopID,
		OwnerID:  f.shopID,
		From:     ptr.Ptr(day.AddDate(0, 0, 1)),
		To:       ptr.Ptr(day),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = f.svc.GetShopBookings(ctx, &models.ListBookingsRequest{CallerID: f.shopID, OwnerID: f.shopID, Status: ptr.Ptr("bogus")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_UpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	b := f.seedBooking(t, domain.StatusConfirmed, time.Now())

	resp, err := f.svc.UpdatePaymentStatus(ctx, b.ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "paid"})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, []string{domain.EventBookingPaymentUpdated}, f.publisher.keys)

	list, err := f.notifications.ListFor(ctx, f.shopID, f.shopID)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, string(domain.NotificationPaymentUpdated), list.Items[0].Type)

	_, err = f.svc.UpdatePaymentStatus(ctx, b.ID, &models.UpdatePaymentStatusRequest{PaymentStatus: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpdatePaymentStatus(ctx, uuid.New(), &models.UpdatePaymentStatusRequest{PaymentStatus: "paid"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
