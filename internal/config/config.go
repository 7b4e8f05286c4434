package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Поддерживаемые бэкенды документного хранилища.
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Документное хранилище
	StoreDriver  string `env:"STORE_DRIVER" envDefault:"mongo"`
	DatabaseURL  string `env:"DATABASE_URL" envDefault:"mongodb://localhost:27017"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"portfolio"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	FrontendURL string   `env:"FRONTEND_URL"`

	// Секрет владельца для /admin/seed. Пустое значение отключает seed по HTTP.
	OwnerKey string `env:"OWNER_KEY"`

	// Загрузка и обработка изображений
	UploadDir   string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadMB int    `env:"MAX_UPLOAD_MB" envDefault:"15"`
	MaxSidePx   int    `env:"MAX_SIDE_PX" envDefault:"2560"`
	JPEGQuality int    `env:"JPEG_QUALITY" envDefault:"82"`
	WEBPQuality int    `env:"WEBP_QUALITY" envDefault:"80"`

	// Предел ширина*высота до декодирования, по умолчанию как у Pillow.
	MaxImagePixels int `env:"MAX_IMAGE_PIXELS" envDefault:"89478485"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"portfolio_events"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}

	if cfg.FrontendURL != "" {
		cfg.CORSOrigins = append(cfg.CORSOrigins, cfg.FrontendURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения, которые env не может проверить тегами.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMongo, StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (use mongo, postgres or memory)", c.StoreDriver)
	}

	if c.StoreDriver != StoreDriverMemory && strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required for store driver %q", c.StoreDriver)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.MaxSidePx <= 0 {
		return fmt.Errorf("MAX_SIDE_PX must be positive, got %d", c.MaxSidePx)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be within 1..100, got %d", c.JPEGQuality)
	}
	if c.WEBPQuality < 0 || c.WEBPQuality > 100 {
		return fmt.Errorf("WEBP_QUALITY must be within 0..100, got %d", c.WEBPQuality)
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be positive, got %d", c.MaxImagePixels)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	return nil
}

// MaxUploadBytes возвращает лимит тела загружаемого файла в байтах.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
