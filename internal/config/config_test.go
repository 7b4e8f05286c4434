package config

import (
	"os"
	"testing"

	"github.com/GoArmGo/PortfolioApp/internal/imageproc"
)

func validConfig() Config {
	return Config{
		StoreDriver: StoreDriverMemory,
		MaxUploadMB: 15,
		MaxSidePx:   2560,
		JPEGQuality: 82,
		WEBPQuality: 80,
		UploadDir:   "uploads",

		MaxImagePixels: 89478485,
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"STORE_DRIVER", "DATABASE_URL", "SERVER_PORT", "MAX_UPLOAD_MB", "MAX_SIDE_PX", "JPEG_QUALITY", "WEBP_QUALITY", "UPLOAD_DIR", "MAX_IMAGE_PIXELS", "CORS_ORIGINS", "RABBITMQ_QUEUE_NAME"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("OWNER_KEY", "secret")
	t.Setenv("FRONTEND_URL", "https://example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.StoreDriver != StoreDriverMongo {
		t.Errorf("StoreDriver = %q, want %q", cfg.StoreDriver, StoreDriverMongo)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.MaxUploadBytes() != 15<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", cfg.MaxUploadBytes(), 15<<20)
	}
	if cfg.MaxImagePixels != imageproc.DefaultMaxPixels {
		t.Errorf("MaxImagePixels = %d, want %d", cfg.MaxImagePixels, imageproc.DefaultMaxPixels)
	}
	if cfg.OwnerKey != "secret" {
		t.Errorf("OwnerKey = %q, want secret", cfg.OwnerKey)
	}
	if got := cfg.CORSOrigins; len(got) != 2 || got[0] != "*" || got[1] != "https://example.com" {
		t.Errorf("CORSOrigins = %v, want [* https://example.com]", got)
	}
	if cfg.RabbitMQ.RabbitMQQueueName != "portfolio_events" {
		t.Errorf("RabbitMQQueueName = %q", cfg.RabbitMQ.RabbitMQQueueName)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero upload size", mutate: func(c *Config) { c.MaxUploadMB = 0 }, wantErr: true},
		{name: "negative side", mutate: func(c *Config) { c.MaxSidePx = -1 }, wantErr: true},
		{name: "jpeg quality too high", mutate: func(c *Config) { c.JPEGQuality = 101 }, wantErr: true},
		{name: "jpeg quality zero", mutate: func(c *Config) { c.JPEGQuality = 0 }, wantErr: true},
		{name: "webp quality too high", mutate: func(c *Config) { c.WEBPQuality = 120 }, wantErr: true},
		{name: "zero pixel limit", mutate: func(c *Config) { c.MaxImagePixels = 0 }, wantErr: true},
		{name: "empty upload dir", mutate: func(c *Config) { c.UploadDir = "" }, wantErr: true},
		{
			name: "postgres without url",
			mutate: func(c *Config) {
				c.StoreDriver = StoreDriverPostgres
				c.DatabaseURL = ""
			},
			wantErr: true,
		},
		{name: "memory without url", mutate: func(c *Config) { c.DatabaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
