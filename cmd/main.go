package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-ShopBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShopBookingService/internal/app"
	"github.com/m04kA/SMC-ShopBookingService/internal/config"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/events"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ShopBookingService/internal/infra/storage/migrator"
	"github.com/m04kA/SMC-ShopBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShopBookingService/pkg/logger"
	"github.com/m04kA/SMC-ShopBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ShopBookingService/pkg/mq"
)

// broker публикатор событий, который нужно закрыть при остановке
type broker interface {
	events.Broker
	Close() error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ShopBookingService...")
	log.Info("Configuration loaded from config.toml (storage=%s)", cfg.Storage.Driver)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var repos *app.Repositories

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		repos = app.NewMemoryRepositories(memory.NewStore())
		log.Info("In-memory storage initialized")
	default:
		db, err := openDatabase(cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to open database: %v", err)
		}
		defer db.Close()

		var recorder dbmetrics.Recorder
		if metricsCollector != nil {
			recorder = metricsCollector
		}
		wrappedDB := dbmetrics.WrapWithDefault(db, recorder, stopCh)
		repos = app.NewPostgresRepositories(wrappedDB)
	}

	// Публикация событий бронирований
	var eventBroker broker = mq.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		eventBroker = publisher
		log.Info("RabbitMQ publisher initialized (exchange=%s)", cfg.RabbitMQ.Exchange)
	}
	defer func() {
		if err := eventBroker.Close(); err != nil {
			log.Error("Failed to close event broker: %v", err)
		}
	}()

	bookingEvents := events.NewBookingPublisher(
		eventBroker,
		time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second,
		metricsCollector,
		log,
	)

	// Ограничение частоты запросов (если включено)
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log)
		go rateLimiter.Run(stopCh)
		log.Info("Rate limiting enabled (rps=%.2f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	application := app.New(repos, bookingEvents, app.Options{
		AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
		MaxMessageLength:   cfg.Booking.MaxMessageLength,
		Metrics:            metricsCollector,
		RateLimiter:        rateLimiter,
	}, log)

	r := application.Router()

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutting down server...")

		// Останавливаем сбор статистики пула и очистку rate limiter
		close(stopCh)

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error: %v", err)
		return
	}

	log.Info("Server stopped gracefully")
}

// openDatabase подключается к PostgreSQL, настраивает пул и применяет миграции
func openDatabase(cfg config.DatabaseConfig, log *logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)", cfg.Host, cfg.Port, cfg.DBName)

	if cfg.AutoMigrate {
		m, err := migrator.NewMigrator(db, log)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init migrator: %w", err)
		}
		if err := m.Up(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
	}

	return db, nil
}
