package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8085

[database]
host = "localhost"
port = 5432
user = "booking"
password = "secret"
dbname = "shop_booking"

[storage]
driver = "postgres"

[booking]
advance_booking_days = 30

[rabbitmq]
enabled = false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8085, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 30, cfg.Booking.AdvanceBookingDays)
	assert.Equal(t, 2000, cfg.Booking.MaxMessageLength)
	assert.Equal(t, "booking.events", cfg.RabbitMQ.Exchange)
	assert.Contains(t, cfg.Database.DSN(), "dbname=shop_booking")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHOP_SERVER_HTTP_PORT", "9090")
	t.Setenv("SHOP_DATABASE_HOST", "db.internal")
	t.Setenv("SHOP_BOOKING_ADVANCE_BOOKING_DAYS", "7")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 7, cfg.Booking.AdvanceBookingDays)
	// не переопределённые значения берутся из файла
	assert.Equal(t, "booking", cfg.Database.User)
}

func TestLoad_MemoryDriverNeedsNoDatabase(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[storage]\ndriver = \"memory\"\n"))
	require.NoError(t, err)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown driver", content: "[storage]\ndriver = \"mongo\"\n"},
		{name: "postgres without host", content: "[storage]\ndriver = \"postgres\"\n"},
		{name: "negative advance days", content: "[storage]\ndriver = \"memory\"\n[booking]\nadvance_booking_days = -1\n"},
		{name: "rabbitmq without url", content: "[storage]\ndriver = \"memory\"\n[rabbitmq]\nenabled = true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
