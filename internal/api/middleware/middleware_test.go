package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShopBookingService/pkg/logger"
	"github.com/m04kA/SMC-ShopBookingService/pkg/metrics"
)

func TestAuth(t *testing.T) {
	var seen uuid.UUID
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserID(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "not uuid", header: "42", status: http.StatusUnauthorized},
		{name: "nil uuid", header: uuid.Nil.String(), status: http.StatusUnauthorized},
		{name: "valid", header: "6f1c2a8e-3b0d-4a52-9a55-0d3f3e2b7c11", status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	assert.Equal(t, "6f1c2a8e-3b0d-4a52-9a55-0d3f3e2b7c11", seen.String())
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2, logger.NewNop())
	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(UserIDHeader, user)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("a"))
	assert.Equal(t, http.StatusOK, do("a"))
	assert.Equal(t, http.StatusTooManyRequests, do("a"))
	// у другого пользователя свой лимит
	assert.Equal(t, http.StatusOK, do("b"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(1, 1, logger.NewNop())
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.getLimiter("a")
	now = now.Add(limiterTTL + time.Second)
	limiter.getLimiter("b")
	limiter.Cleanup()

	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "b")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", clientIP(req))

	req.Header.Set("X-Forwarded-For", "10.0.0.3, 10.0.0.4")
	assert.Equal(t, "10.0.0.3", clientIP(req))
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer(reg, "test")

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/shops/{shopId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/shops/"+uuid.NewString(), nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	var requests float64
	for _, f := range families {
		switch f.GetName() {
		case "http_requests_total":
			for _, metric := range f.GetMetric() {
				for _, label := range metric.GetLabel() {
					if label.GetName() == "route" {
						assert.Equal(t, "/shops/{shopId}", label.GetValue())
					}
				}
				requests += metric.GetCounter().GetValue()
			}
		case "http_requests_in_flight":
			assert.Equal(t, float64(0), f.GetMetric()[0].GetGauge().GetValue())
		}
	}
	assert.Equal(t, float64(3), requests)
}
