package client

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Client представляет клиент для взаимодействия с PostgreSQL
type Client struct {
	DB     *sqlx.DB
	logger *slog.Logger
}

// NewClient инициализирует новое подключение к PostgreSQL и применяет миграции
func NewClient(databaseURL string, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		logger.Error("failed to open PostgreSQL connection", "error", err)
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := applyMigrations(databaseURL, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("PostgreSQL connection established successfully",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Client{DB: db, logger: logger}, nil
}

// applyMigrations применяет встроенные в бинарник миграции к бд
func applyMigrations(databaseURL string, logger *slog.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("database schema is up to date")
	} else {
		logger.Info("migrations applied successfully")
	}
	return nil
}

func (c *Client) Close() error {
	start := time.Now()
	err := c.DB.Close()
	if err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
