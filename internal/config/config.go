package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
// Имена строятся из имён полей: SHOP_DATABASE_HOST, SHOP_SERVER_HTTP_PORT, SHOP_RABBIT_MQ_URL
const EnvPrefix = "SHOP"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server" split_words:"true"`
	Database  DatabaseConfig  `toml:"database" split_words:"true"`
	Storage   StorageConfig   `toml:"storage" split_words:"true"`
	Logs      LogsConfig      `toml:"logs" split_words:"true"`
	Metrics   MetricsConfig   `toml:"metrics" split_words:"true"`
	Booking   BookingConfig   `toml:"booking" split_words:"true"`
	RateLimit RateLimitConfig `toml:"rate_limit" split_words:"true"`
	RabbitMQ  RabbitMQConfig  `toml:"rabbitmq" split_words:"true"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`     // секунды
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`    // секунды
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate" split_words:"true"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type StorageConfig struct {
	// Driver postgres или memory
	Driver string `toml:"driver" split_words:"true"`
}

type LogsConfig struct {
	Level string `toml:"level" split_words:"true"`
	File  string `toml:"file" split_words:"true"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

type BookingConfig struct {
	// AdvanceBookingDays на сколько дней вперёд можно бронировать (0 = без ограничения)
	AdvanceBookingDays int `toml:"advance_booking_days" split_words:"true"`
	MaxMessageLength   int `toml:"max_message_length" split_words:"true"`
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled" split_words:"true"`
	RPS     float64 `toml:"rps" split_words:"true"`
	Burst   int     `toml:"burst" split_words:"true"`
}

type RabbitMQConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	URL      string `toml:"url" split_words:"true"`
	Exchange string `toml:"exchange" split_words:"true"`
	// PublishTimeout секунды на публикацию одного события
	PublishTimeout int `toml:"publish_timeout" split_words:"true"`
}

// Load читает .env (если есть), затем config.toml, затем применяет переменные окружения SHOP_*
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "shop_booking_service"
	}
	if c.Booking.MaxMessageLength == 0 {
		c.Booking.MaxMessageLength = 2000
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "booking.events"
	}
	if c.RabbitMQ.PublishTimeout == 0 {
		c.RabbitMQ.PublishTimeout = 5
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
			return errors.New("database.host, database.dbname and database.user are required for postgres storage")
		}
		if c.Database.Port <= 0 {
			return fmt.Errorf("database.port must be positive, got %d", c.Database.Port)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q",
			StorageDriverPostgres, StorageDriverMemory, c.Storage.Driver)
	}

	if c.Booking.AdvanceBookingDays < 0 || c.Booking.AdvanceBookingDays > 365 {
		return fmt.Errorf("booking.advance_booking_days must be in 0..365, got %d", c.Booking.AdvanceBookingDays)
	}
	if c.Booking.MaxMessageLength < 0 {
		return fmt.Errorf("booking.max_message_length must not be negative, got %d", c.Booking.MaxMessageLength)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("rate_limit.rps and rate_limit.burst must be positive")
	}

	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return errors.New("rabbitmq.url is required when rabbitmq is enabled")
	}

	return nil
}
