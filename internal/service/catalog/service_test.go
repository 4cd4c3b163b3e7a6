package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ShopBookingService/internal/service/catalog/models"
	"github.com/m04kA/SMC-ShopBookingService/pkg/logger"
)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

func newTestService(t *testing.T) (*Service, *memory.Store, uuid.UUID) {
	t.Helper()

	store := memory.NewStore()
	shopID := uuid.New()
	_, err := store.Shops().Create(context.Background(), &domain.Shop{ID: shopID, Name: "shop", Address: "addr", WorkModeOn: true})
	require.NoError(t, err)

	svc := NewService(store.Services(), store.Shops(), store.Bookings(), store.TxManager(), logger.NewNop()).
		WithTimeProvider(fixedTime{now: time.Date(2030, 6, 1, 8, 0, 0, 0, time.UTC)})
	return svc, store, shopID
}

func TestService_AddValidation(t *testing.T) {
	svc, _, shopID := newTestService(t)

	tests := []struct {
		name    string
		req     models.ServiceRequest
		wantErr bool
	}{
		{"корректная", models.ServiceRequest{Name: "Мойка", Price: 500, DurationMinutes: 30}, false},
		{"бесплатная", models.ServiceRequest{Name: "Консультация", Price: 0, DurationMinutes: 5}, false},
		{"пустое имя", models.ServiceRequest{Name: " ", Price: 100, DurationMinutes: 30}, true},
		{"отрицательная цена", models.ServiceRequest{Name: "x", Price: -1, DurationMinutes: 30}, true},
		{"слишком короткая", models.ServiceRequest{Name: "x", Price: 1, DurationMinutes: 4}, true},
		{"слишком длинная", models.ServiceRequest{Name: "x", Price: 1, DurationMinutes: 481}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Add(context.Background(), shopID, shopID, &req)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc, _, shopID := newTestService(t)

	_, err := svc.Add(ctx, uuid.New(), shopID, &models.ServiceRequest{Name: "x", Price: 1, DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrAccessDenied)

	created, err := svc.Add(ctx, shopID, shopID, &models.ServiceRequest{Name: "Мойка", Price: 500, DurationMinutes: 30})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, shopID, shopID, created.ID, &models.ServiceRequest{Name: "Мойка+", Price: 700, DurationMinutes: 45})
	require.NoError(t, err)
	assert.Equal(t, "Мойка+", updated.Name)
	assert.Equal(t, 45, updated.DurationMinutes)

	list, err := svc.List(ctx, shopID)
	require.NoError(t, err)
	require.Len(t, list.Services, 1)

	require.NoError(t, svc.Delete(ctx, shopID, shopID, created.ID))

	err = svc.Delete(ctx, shopID, shopID, created.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = svc.List(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestService_DeleteBlockedByActiveBooking(t *testing.T) {
	ctx := context.Background()
	svc, store, shopID := newTestService(t)

	created, err := svc.Add(ctx, shopID, shopID, &models.ServiceRequest{Name: "Мойка", Price: 500, DurationMinutes: 30})
	require.NoError(t, err)

	_, err = store.Bookings().Create(ctx, &domain.Booking{
		ID:            uuid.New(),
		ShopID:        shopID,
		SlotID:        uuid.New(),
		ServiceID:     created.ID,
		CustomerID:    uuid.New(),
		BookingDate:   time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.DefaultPaymentStatus,
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, shopID, shopID, created.ID)
	assert.ErrorIs(t, err, ErrServiceInUse)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
