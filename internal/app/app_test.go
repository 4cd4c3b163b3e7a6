package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/events"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ShopBookingService/pkg/logger"
	"github.com/m04kA/SMC-ShopBookingService/pkg/metrics"
)

type recordingBroker struct {
	mu   sync.Mutex
	keys []string
}

func (b *recordingBroker) PublishJSON(_ context.Context, key string, _ any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys = append(b.keys, key)
	return nil
}

func (b *recordingBroker) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.keys...)
}

type testServer struct {
	t      *testing.T
	srv    *httptest.Server
	broker *recordingBroker
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.NewNop()
	var m *metrics.Metrics
	broker := &recordingBroker{}
	publisher := events.NewBookingPublisher(broker, time.Second, m, log)

	application := New(NewMemoryRepositories(memory.NewStore()), publisher, Options{}, log)
	srv := httptest.NewServer(application.Router())
	t.Cleanup(srv.Close)

	return &testServer{t: t, srv: srv, broker: broker}
}

// do выполняет запрос от имени caller и декодирует ответ в out (если задан)
func (s *testServer) do(method, path string, caller uuid.UUID, body, out any) int {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if caller != uuid.Nil {
		req.Header.Set(middleware.UserIDHeader, caller.String())
	}

	resp, err := s.srv.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type idResponse struct {
	ID uuid.UUID `json:"id"`
}

type bookingResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

type notificationList struct {
	Items []struct {
		ID         uuid.UUID  `json:"id"`
		Type       string     `json:"type"`
		IsRead     bool       `json:"isRead"`
		BookingID  *uuid.UUID `json:"bookingId"`
		ChatRoomID *uuid.UUID `json:"chatRoomId"`
	} `json:"items"`
	UnreadCount int `json:"unreadCount"`
}

type messageList struct {
	Messages []struct {
		ID        uuid.UUID `json:"id"`
		SenderID  uuid.UUID `json:"senderId"`
		IsRead    bool      `json:"isRead"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"messages"`
	UnreadCount int `json:"unreadCount"`
}

func bookingBody(shop, slot, service, customer uuid.UUID, date string) map[string]any {
	return map[string]any{
		"shopId":      shop,
		"slotId":      slot,
		"serviceId":   service,
		"customerId":  customer,
		"bookingDate": date,
	}
}

func TestBookingScenario(t *testing.T) {
	s := newTestServer(t)

	shop := uuid.New()
	customerA, customerB, customerC := uuid.New(), uuid.New(), uuid.New()
	date := time.Now().UTC().AddDate(0, 0, 7).Format(domain.DateFormat)

	// Магазин регистрируется, режим работы включён
	var shopResp struct {
		ID         uuid.UUID `json:"id"`
		WorkModeOn bool      `json:"workModeOn"`
	}
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/shops", shop, map[string]any{
		"name": "Барбершоп", "address": "ул. Ленина, 1", "contactNumber": "+70000000000",
	}, &shopResp))
	require.Equal(t, shop, shopResp.ID)
	require.True(t, shopResp.WorkModeOn)

	var slot1, slot2, service idResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/shops/"+shop.String()+"/slots", shop,
		map[string]any{"startTime": "09:00", "endTime": "10:00"}, &slot1))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/shops/"+shop.String()+"/slots", shop,
		map[string]any{"startTime": "10:00", "endTime": "11:00"}, &slot2))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/shops/"+shop.String()+"/services", shop,
		map[string]any{"name": "Стрижка", "price": 1500, "durationMinutes": 60}, &service))

	// Пересекающийся слот отклоняется
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/v1/shops/"+shop.String()+"/slots", shop,
		map[string]any{"startTime": "09:30", "endTime": "10:30"}, nil))

	// A бронирует слот
	var bookingA bookingResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/bookings", customerA,
		bookingBody(shop, slot1.ID, service.ID, customerA, date), &bookingA))
	assert.Equal(t, "pending", bookingA.Status)

	// B получает SlotUnavailable на тот же слот и дату
	var rejected errorResponse
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/v1/bookings", customerB,
		bookingBody(shop, slot1.ID, service.ID, customerB, date), &rejected))
	assert.Equal(t, domain.ReasonSlotUnavailable, rejected.Reason)

	// Свободные слоты на дату: занятый слот не предлагается
	var free struct {
		Slots []struct {
			SlotID    uuid.UUID `json:"slotId"`
			Available bool      `json:"available"`
		} `json:"slots"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet,
		"/api/v1/shops/"+shop.String()+"/available-slots?date="+date, uuid.Nil, nil, &free))
	require.Len(t, free.Slots, 2)
	assert.Equal(t, slot1.ID, free.Slots[0].SlotID)
	assert.False(t, free.Slots[0].Available)
	assert.True(t, free.Slots[1].Available)

	// Магазин подтверждает бронирование A
	var confirmed bookingResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodPatch, "/api/v1/bookings/"+bookingA.ID.String()+"/status", shop,
		map[string]any{"status": "confirmed", "actor": "shop"}, &confirmed))
	assert.Equal(t, "confirmed", confirmed.Status)

	// Магазин выключает режим работы, C получает ShopClosed
	var workMode struct {
		WorkModeOn bool `json:"workModeOn"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodPatch, "/api/v1/shops/"+shop.String()+"/work-mode", shop, nil, &workMode))
	assert.False(t, workMode.WorkModeOn)

	rejected = errorResponse{}
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/v1/bookings", customerC,
		bookingBody(shop, slot2.ID, service.ID, customerC, date), &rejected))
	assert.Equal(t, domain.ReasonShopClosed, rejected.Reason)

	// Завершение и попытка отмены после него
	require.Equal(t, http.StatusOK, s.do(http.MethodPatch, "/api/v1/bookings/"+bookingA.ID.String()+"/status", shop,
		map[string]any{"status": "completed", "actor": "shop"}, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPatch, "/api/v1/bookings/"+bookingA.ID.String()+"/status", customerA,
		map[string]any{"status": "canceled", "actor": "customer"}, nil))

	// Уведомления: магазину одно о создании, клиенту о подтверждении и завершении
	var shopNotes notificationList
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/notifications/"+shop.String(), shop, nil, &shopNotes))
	require.Len(t, shopNotes.Items, 1)
	assert.Equal(t, string(domain.NotificationBookingCreated), shopNotes.Items[0].Type)
	assert.Equal(t, 1, shopNotes.UnreadCount)

	var customerNotes notificationList
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/notifications/"+customerA.String(), customerA, nil, &customerNotes))
	require.Len(t, customerNotes.Items, 2)
	assert.Equal(t, string(domain.NotificationBookingCompleted), customerNotes.Items[0].Type)
	assert.Equal(t, string(domain.NotificationBookingConfirmed), customerNotes.Items[1].Type)

	// Чужие уведомления недоступны
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/notifications/"+shop.String(), customerA, nil, nil))

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPut,
		"/api/v1/notifications/"+customerNotes.Items[0].ID.String()+"/read", customerA, nil, nil))
	var unread struct {
		UnreadCount int `json:"unreadCount"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet,
		"/api/v1/notifications/"+customerA.String()+"/unread-count", customerA, nil, &unread))
	assert.Equal(t, 1, unread.UnreadCount)

	// Списки бронирований
	var shopBookings struct {
		Bookings []bookingResponse `json:"bookings"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet,
		"/api/v1/shops/"+shop.String()+"/bookings?status=completed", shop, nil, &shopBookings))
	require.Len(t, shopBookings.Bookings, 1)
	assert.Equal(t, bookingA.ID, shopBookings.Bookings[0].ID)

	assert.Equal(t, []string{
		domain.EventBookingCreated,
		domain.EventBookingConfirmed,
		domain.EventBookingCompleted,
	}, s.broker.Keys())
}

func TestChatScenario(t *testing.T) {
	s := newTestServer(t)

	shop, customer := uuid.New(), uuid.New()
	date := time.Now().UTC().AddDate(0, 0, 1).Format(domain.DateFormat)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/shops", shop, map[string]any{
		"name": "Студия", "address": "пр. Мира, 5", "contactNumber": "+70000000001",
	}, nil))
	var slot, service idResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/shops/"+shop.String()+"/slots", shop,
		map[string]any{"startTime": "12:00", "endTime": "13:00"}, &slot))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/shops/"+shop.String()+"/services", shop,
		map[string]any{"name": "Маникюр", "price": 2000, "durationMinutes": 60}, &service))

	var booking bookingResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/bookings", customer,
		bookingBody(shop, slot.ID, service.ID, customer, date), &booking))

	openBody := map[string]any{"bookingId": booking.ID, "shopId": shop, "customerId": customer}

	var room idResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/chat-rooms", customer, openBody, &room))

	var again idResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/chat-rooms", shop, openBody, &again))
	assert.Equal(t, room.ID, again.ID)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/v1/chat-rooms", uuid.New(), openBody, nil))

	messagesPath := "/api/v1/chat-rooms/" + room.ID.String() + "/messages"
	for _, text := range []string{"Добрый день", "Можно на час позже?"} {
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, messagesPath, customer,
			map[string]any{"content": text}, nil))
	}
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, messagesPath, customer,
		map[string]any{"content": ""}, nil))

	var shopView messageList
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, messagesPath, shop, nil, &shopView))
	require.Len(t, shopView.Messages, 2)
	assert.Equal(t, 2, shopView.UnreadCount)
	assert.True(t, shopView.Messages[1].CreatedAt.After(shopView.Messages[0].CreatedAt))

	// since исключает переданный момент
	since := url.QueryEscape(shopView.Messages[0].CreatedAt.Format(time.RFC3339Nano))
	var tail messageList
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, messagesPath+"?since="+since, shop, nil, &tail))
	require.Len(t, tail.Messages, 1)
	assert.Equal(t, shopView.Messages[1].ID, tail.Messages[0].ID)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, messagesPath+"?since=yesterday", shop, nil, nil))

	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/v1/chat-rooms/"+room.ID.String()+"/read", shop, nil, nil))
	shopView = messageList{}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, messagesPath, shop, nil, &shopView))
	assert.Equal(t, 0, shopView.UnreadCount)

	// Магазин получил уведомления о сообщениях со ссылкой на комнату
	var notes notificationList
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/notifications/"+shop.String(), shop, nil, &notes))
	require.Len(t, notes.Items, 3)
	assert.Equal(t, string(domain.NotificationMessageReceived), notes.Items[0].Type)
	require.NotNil(t, notes.Items[0].ChatRoomID)
	assert.Equal(t, room.ID, *notes.Items[0].ChatRoomID)
}

func TestConcurrentBookingsOverHTTP(t *testing.T) {
	s := newTestServer(t)

	shop := uuid.New()
	date := time.Now().UTC().AddDate(0, 0, 3).Format(domain.DateFormat)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/shops", shop, map[string]any{
		"name": "Мастерская", "address": "ул. Садовая, 3", "contactNumber": "+70000000002",
	}, nil))
	var slot, service idResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/shops/"+shop.String()+"/slots", shop,
		map[string]any{"startTime": "15:00", "endTime": "16:00"}, &slot))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/shops/"+shop.String()+"/services", shop,
		map[string]any{"name": "Ремонт", "price": 500, "durationMinutes": 30}, &service))

	const attempts = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = make(map[int]int)
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			customer := uuid.New()
			status := s.do(http.MethodPost, "/api/v1/bookings", customer,
				bookingBody(shop, slot.ID, service.ID, customer, date), nil)
			mu.Lock()
			statuses[status]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, statuses[http.StatusCreated])
	assert.Equal(t, attempts-1, statuses[http.StatusConflict])
}

func TestReviewScenario(t *testing.T) {
	s := newTestServer(t)

	shop, customer, stranger := uuid.New(), uuid.New(), uuid.New()
	date := time.Now().UTC().AddDate(0, 0, 3).Format(domain.DateFormat)
	shopPath := "/api/v1/shops/" + shop.String()

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/shops", shop, map[string]any{
		"name": "Барбершоп", "address": "ул. Ленина, 1", "contactNumber": "+70000000000",
	}, nil))
	var slot, service idResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, shopPath+"/slots", shop,
		map[string]any{"startTime": "09:00", "endTime": "10:00"}, &slot))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, shopPath+"/services", shop,
		map[string]any{"name": "Стрижка", "price": 1500, "durationMinutes": 60}, &service))

	var booking bookingResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/bookings", customer,
		bookingBody(shop, slot.ID, service.ID, customer, date), &booking))

	reviewBody := map[string]any{"bookingId": booking.ID, "rating": 5, "comment": "Отличная стрижка"}

	// Отзыв до завершения бронирования отклоняется
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/v1/reviews", customer, reviewBody, nil))

	statusPath := "/api/v1/bookings/" + booking.ID.String() + "/status"
	require.Equal(t, http.StatusOK, s.do(http.MethodPatch, statusPath, shop,
		map[string]any{"status": "confirmed", "actor": "shop"}, nil))
	require.Equal(t, http.StatusOK, s.do(http.MethodPatch, statusPath, shop,
		map[string]any{"status": "completed", "actor": "shop"}, nil))

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/v1/reviews", stranger, reviewBody, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/reviews", customer,
		map[string]any{"bookingId": booking.ID, "rating": 7}, nil))

	var review struct {
		ID     uuid.UUID `json:"id"`
		ShopID uuid.UUID `json:"shopId"`
		Rating int       `json:"rating"`
	}
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/reviews", customer, reviewBody, &review))
	assert.Equal(t, shop, review.ShopID)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/v1/reviews", customer, reviewBody, nil))

	type reviewList struct {
		Reviews []struct {
			ID      uuid.UUID `json:"id"`
			Rating  int       `json:"rating"`
			Comment string    `json:"comment"`
		} `json:"reviews"`
		Count         int     `json:"count"`
		AverageRating float64 `json:"averageRating"`
	}

	// Список отзывов публичный
	var list reviewList
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, shopPath+"/reviews", uuid.Nil, nil, &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, 5.0, list.AverageRating)

	reviewPath := "/api/v1/reviews/" + review.ID.String()
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, reviewPath, shop,
		map[string]any{"rating": 1, "comment": "плохо"}, nil))
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, reviewPath, customer,
		map[string]any{"rating": 4, "comment": "Хорошо"}, nil))

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, shopPath+"/reviews", uuid.Nil, nil, &list))
	require.Len(t, list.Reviews, 1)
	assert.Equal(t, 4, list.Reviews[0].Rating)
	assert.Equal(t, "Хорошо", list.Reviews[0].Comment)

	// Магазин получил уведомление об отзыве
	var shopNotifications notificationList
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/notifications/"+shop.String(), shop, nil, &shopNotifications))
	require.NotEmpty(t, shopNotifications.Items)
	assert.Equal(t, string(domain.NotificationReviewReceived), shopNotifications.Items[0].Type)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, reviewPath, stranger, nil, nil))
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, reviewPath, customer, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, reviewPath, customer, nil, nil))

	list = reviewList{}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, shopPath+"/reviews", uuid.Nil, nil, &list))
	assert.Zero(t, list.Count)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/shops/"+uuid.NewString()+"/reviews", uuid.Nil, nil, nil))
}

func TestRoutesRequireUserID(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/bookings", uuid.Nil, map[string]any{}, nil))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/shops/"+uuid.NewString(), uuid.Nil, nil, nil))
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", uuid.Nil, nil, nil))
}
