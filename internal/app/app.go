package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoArmGo/PortfolioApp/internal/config"
	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/GoArmGo/PortfolioApp/internal/usecase"
)

// Режимы запуска.
const (
	ModeServer = "server"
	ModeSeed   = "seed"
)

type App struct {
	Config      *config.Config
	logger      *slog.Logger
	store       ports.DocumentStore
	handler     http.Handler
	seedUseCase usecase.SeedUseCase
	closers     []func()
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	store ports.DocumentStore,
	handler http.Handler,
	seedUseCase usecase.SeedUseCase,
	closers ...func(),
) *App {
	return &App{
		Config:      cfg,
		logger:      logger,
		store:       store,
		handler:     handler,
		seedUseCase: seedUseCase,
		closers:     closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Handler возвращает собранный HTTP-обработчик (используется в тестах).
func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Run(ctx context.Context, mode string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.Shutdown()

	a.logger.Info("running", "mode", mode)

	switch mode {
	case ModeServer:
		return runServer(ctx, ":"+a.Config.ServerPort, a.handler, a.logger)

	case ModeSeed:
		// Запуск из CLI — доступ оператора, ключ владельца не нужен.
		result, err := a.seedUseCase.SeedDefaults(ctx)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		a.logger.Info("seed finished", "seeded", result.Seeded, "total_categories", result.TotalCategories)
		return nil

	default:
		return fmt.Errorf("unknown mode: %s (use '%s' or '%s')", mode, ModeServer, ModeSeed)
	}
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil

	if a.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.store.Close(ctx); err != nil {
			a.logger.Error("failed to close document store", "error", err)
		}
		a.store = nil
	}
	a.logger.Info("resources released")
}
