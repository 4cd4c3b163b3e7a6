package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ShopBookingService/pkg/logger"
	"github.com/m04kA/SMC-ShopBookingService/pkg/types"
)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

type fixture struct {
	store  *memory.Store
	uc     *UseCase
	shopID uuid.UUID
	slots  []uuid.UUID
	now    time.Time
}

func newFixture(t *testing.T, advanceBookingDays int) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	f := &fixture{
		store:  store,
		shopID: uuid.New(),
		now:    time.Date(2030, 5, 31, 10, 30, 0, 0, time.UTC),
	}

	_, err := store.Shops().Create(ctx, &domain.Shop{ID: f.shopID, Name: "shop", Address: "addr", WorkModeOn: true})
	require.NoError(t, err)

	for _, window := range [][2]string{{"09:00", "10:00"}, {"10:00", "11:00"}, {"11:00", "12:00"}} {
		id := uuid.New()
		_, err := store.Slots().Create(ctx, &domain.TimeSlot{
			ID: id, ShopID: f.shopID,
			Start: types.TimeString(window[0]), End: types.TimeString(window[1]),
		})
		require.NoError(t, err)
		f.slots = append(f.slots, id)
	}

	f.uc = NewUseCase(store.Shops(), store.Slots(), store.Bookings(), store.TxManager(), advanceBookingDays, logger.NewNop()).
		WithTimeProvider(fixedTime{now: f.now})
	return f
}

func (f *fixture) book(t *testing.T, slotID uuid.UUID, date time.Time, status domain.BookingStatus) {
	t.Helper()
	_, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		ID:            uuid.New(),
		ShopID:        f.shopID,
		SlotID:        slotID,
		ServiceID:     uuid.New(),
		CustomerID:    uuid.New(),
		BookingDate:   date,
		Status:        status,
		PaymentStatus: domain.DefaultPaymentStatus,
	})
	require.NoError(t, err)
}

func availability(resp *Response) []bool {
	result := make([]bool, len(resp.Slots))
	for i, slot := range resp.Slots {
		result[i] = slot.Available
	}
	return result
}

func TestUseCase_MarksBookedSlots(t *testing.T) {
	f := newFixture(t, 0)
	date := time.Date(2030, 6, 2, 0, 0, 0, 0, time.UTC)

	f.book(t, f.slots[0], date, domain.StatusConfirmed)
	f.book(t, f.slots[1], date, domain.StatusCanceled)
	// Бронирование на другую дату не влияет
	f.book(t, f.slots[2], date.AddDate(0, 0, 1), domain.StatusPending)

	resp, err := f.uc.Execute(context.Background(), &Request{ShopID: f.shopID, Date: date})
	require.NoError(t, err)

	assert.True(t, resp.WorkModeOn)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, []bool{false, true, true}, availability(resp))
}

func TestUseCase_TodaySkipsStartedSlots(t *testing.T) {
	f := newFixture(t, 0)

	resp, err := f.uc.Execute(context.Background(), &Request{ShopID: f.shopID, Date: f.now})
	require.NoError(t, err)

	// 10:30: окна 09:00 и 10:00 уже начались
	assert.Equal(t, []bool{false, false, true}, availability(resp))
}

func TestUseCase_WorkModeOff(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.store.Shops().ToggleWorkMode(context.Background(), f.shopID)
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), &Request{ShopID: f.shopID, Date: f.now.AddDate(0, 0, 1)})
	require.NoError(t, err)

	assert.False(t, resp.WorkModeOn)
	assert.Equal(t, []bool{false, false, false}, availability(resp))
}

func TestUseCase_Errors(t *testing.T) {
	f := newFixture(t, 30)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *Request
		wantErr error
		kind    error
	}{
		{
			name:    "unknown shop",
			req:     &Request{ShopID: uuid.New(), Date: f.now},
			wantErr: ErrShopNotFound,
			kind:    domain.ErrNotFound,
		},
		{
			name:    "missing shop id",
			req:     &Request{Date: f.now},
			wantErr: ErrInvalidInput,
			kind:    domain.ErrValidation,
		},
		{
			name:    "past date",
			req:     &Request{ShopID: f.shopID, Date: f.now.AddDate(0, 0, -1)},
			wantErr: ErrInvalidDate,
			kind:    domain.ErrValidation,
		},
		{
			name:    "too far",
			req:     &Request{ShopID: f.shopID, Date: f.now.AddDate(0, 0, 31)},
			wantErr: ErrDateTooFarInFuture,
			kind:    domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}
