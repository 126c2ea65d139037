package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration for the library bot
type Config struct {
	Telegram TelegramConfig
	Catalog  CatalogConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
	Service  ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken      string
	AdminIDs      []int64
	StorageChatID int64
}

// IsAdmin reports whether userID is one of the configured operators
func (c *TelegramConfig) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CatalogConfig holds catalog limits and storage selection
type CatalogConfig struct {
	MaxFileSizeMB int64
	Storage       string
}

// MaxFileSize returns the upload ceiling in bytes
func (c *CatalogConfig) MaxFileSize() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// GetDSN builds the libpq connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	TopicPrefix string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds the operational HTTP endpoint configuration
type ServiceConfig struct {
	Name string
	Port string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Catalog  *CatalogConfig
	Database *DatabaseConfig
	Kafka    *KafkaConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Catalog:  &cfg.Catalog,
		Database: &cfg.Database,
		Kafka:    &cfg.Kafka,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	adminIDs, err := parseIDs(getEnv("TELEGRAM_ADMIN_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_ADMIN_IDS: %w", err)
	}

	storageChatID, err := parseInt(getEnv("TELEGRAM_STORAGE_CHAT_ID", "0"))
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_STORAGE_CHAT_ID: %w", err)
	}

	maxFileSize, err := parseInt(getEnv("CATALOG_MAX_FILE_SIZE_MB", "50"))
	if err != nil {
		return nil, fmt.Errorf("CATALOG_MAX_FILE_SIZE_MB: %w", err)
	}

	maxOpenConns, err := getEnvInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS: %w", err)
	}

	maxIdleConns, err := getEnvInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("DB_MAX_IDLE_CONNS: %w", err)
	}

	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
	}

	readTimeout, err := getEnvDuration("HTTP_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("HTTP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("HTTP_WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getEnvDuration("HTTP_IDLE_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("HTTP_IDLE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
			AdminIDs:      adminIDs,
			StorageChatID: storageChatID,
		},
		Catalog: CatalogConfig{
			MaxFileSizeMB: maxFileSize,
			Storage:       strings.ToLower(getEnv("CATALOG_STORAGE", StoragePostgres)),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "library_bot"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxOpenConns:    maxOpenConns,
			MaxIdleConns:    maxIdleConns,
			ConnMaxLifetime: connMaxLifetime,
		},
		Kafka: KafkaConfig{
			Enabled:     getEnv("KAFKA_ENABLED", "false") == "true",
			Brokers:     strings.Split(getEnv("KAFKA_BROKERS", "localhost:9093"), ","),
			TopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", "library-bot"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "library-bot"),
			Port: getEnv("SERVICE_PORT", "8082"),

			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if len(c.Telegram.AdminIDs) == 0 {
		return fmt.Errorf("TELEGRAM_ADMIN_IDS is required")
	}

	if c.Telegram.StorageChatID == 0 {
		return fmt.Errorf("TELEGRAM_STORAGE_CHAT_ID is required")
	}

	if c.Catalog.MaxFileSizeMB <= 0 {
		return fmt.Errorf("CATALOG_MAX_FILE_SIZE_MB must be positive")
	}

	switch c.Catalog.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("CATALOG_STORAGE must be %q or %q", StoragePostgres, StorageMemory)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt returns an int from the environment or defaultValue when unset
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	return n, nil
}

// getEnvDuration returns a positive duration such as 30s or 15m from the environment
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (use 30s, 1h, 15m)", value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", value)
	}
	return d, nil
}

func parseInt(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

func parseIDs(value string) ([]int64, error) {
	var ids []int64
	for _, raw := range strings.Split(value, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := parseInt(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
