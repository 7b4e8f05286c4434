package usecase

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
)

const maxStatusErrorLen = 80

// StoreStatus — ответ /test.
type StoreStatus struct {
	Backend     string   `json:"backend"`
	Driver      string   `json:"driver"`
	Database    string   `json:"database"`
	Collections []string `json:"collections"`
}

// statusUseCase implements StatusUseCase
type statusUseCase struct {
	store  ports.DocumentStore
	driver string
	logger *slog.Logger
}

func NewStatusUseCase(store ports.DocumentStore, driver string, logger *slog.Logger) StatusUseCase {
	return &statusUseCase{store: store, driver: driver, logger: logger}
}

// Status никогда не возвращает ошибку: сбой хранилища отражается в поле Database.
func (uc *statusUseCase) Status(ctx context.Context) StoreStatus {
	status := StoreStatus{
		Backend:     "running",
		Driver:      uc.driver,
		Database:    "not-configured",
		Collections: []string{},
	}
	if uc.store == nil {
		return status
	}

	if err := uc.store.Ping(ctx); err != nil {
		uc.logger.Warn("store ping failed", "error", err)
		status.Database = "error: " + truncate(err.Error(), maxStatusErrorLen)
		return status
	}
	status.Database = "connected"

	names, err := uc.store.Collections(ctx)
	if err != nil {
		uc.logger.Warn("failed to list collections", "error", err)
		status.Database = "error: " + truncate(err.Error(), maxStatusErrorLen)
		return status
	}
	if names != nil {
		status.Collections = names
	}
	return status
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
