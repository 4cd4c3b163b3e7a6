package events

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ShopBookingService/internal/domain"
)

// Broker транспорт публикации (pkg/mq.Publisher или mq.NopPublisher)
type Broker interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Metrics метрики публикации
type Metrics interface {
	IncEventPublishFailed()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// BookingPublisher публикует события бронирований после коммита
// Ошибки брокера не возвращаются вызывающему: бронирование уже сохранено,
// сбой публикации только логируется и попадает в метрики
type BookingPublisher struct {
	broker  Broker
	timeout time.Duration
	metrics Metrics
	logger  Logger
	now     func() time.Time
}

// NewBookingPublisher создает публикатор событий
func NewBookingPublisher(broker Broker, timeout time.Duration, metrics Metrics, logger Logger) *BookingPublisher {
	return &BookingPublisher{
		broker:  broker,
		timeout: timeout,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// PublishBookingEvent публикует событие с ключом key
// Контекст запроса отвязывается от отмены: клиент мог уже закрыть соединение
func (p *BookingPublisher) PublishBookingEvent(ctx context.Context, key string, booking *domain.Booking) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	event := domain.NewBookingEvent(booking, p.now())
	if err := p.broker.PublishJSON(pubCtx, key, event); err != nil {
		p.metrics.IncEventPublishFailed()
		p.logger.Error("PublishBookingEvent: failed to publish %s for booking id=%s: %v", key, booking.ID, err)
		return
	}

	p.logger.Info("PublishBookingEvent: published %s for booking id=%s", key, booking.ID)
}
