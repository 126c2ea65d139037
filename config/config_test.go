package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token-123")
	t.Setenv("TELEGRAM_ADMIN_IDS", "42, 43")
	t.Setenv("TELEGRAM_STORAGE_CHAT_ID", "-1001234567890")
}

func TestLoad(t *testing.T) {
	setRequired(t)
	t.Setenv("CATALOG_STORAGE", "MEMORY")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []int64{42, 43}, cfg.Telegram.AdminIDs)
	assert.Equal(t, int64(-1001234567890), cfg.Telegram.StorageChatID)
	assert.Equal(t, StorageMemory, cfg.Catalog.Storage)
	assert.Equal(t, int64(50*1024*1024), cfg.Catalog.MaxFileSize())
	assert.False(t, cfg.Kafka.Enabled)
	assert.True(t, cfg.Telegram.IsAdmin(43))
	assert.False(t, cfg.Telegram.IsAdmin(7))

	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.Service.ReadTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Service.IdleTimeout)
}

func TestLoadOverridesPoolAndTimeouts(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("HTTP_WRITE_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 45*time.Second, cfg.Service.WriteTimeout)
}

func TestLoadRejectsBadDurations(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "HTTP_READ_TIMEOUT", value: "soon"},
		{key: "HTTP_IDLE_TIMEOUT", value: "-5s"},
		{key: "DB_CONN_MAX_LIFETIME", value: "0s"},
		{key: "DB_MAX_IDLE_CONNS", value: "many"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadRequiresAdmins(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_ADMIN_IDS", " , ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_ADMIN_IDS")
}

func TestLoadRejectsBadAdminID(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_ADMIN_IDS", "42,abc")

	_, err := Load()
	require.Error(t, err)
}

func TestValidateStorage(t *testing.T) {
	setRequired(t)
	t.Setenv("CATALOG_STORAGE", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_STORAGE")
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "lib", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=lib sslmode=disable", cfg.GetDSN())
}
