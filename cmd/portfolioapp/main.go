package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GoArmGo/PortfolioApp/internal/di"
)

func main() {

	mode := flag.String("mode", "server", "Режим запуска приложения: server или seed")
	flag.Parse()

	// bootstrap-логгер (используется только на этапе инициализации т.к еще не создал slogger)
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	bootstrapLogger.Info("starting application", "mode", *mode)

	ctx := context.Background()

	app, err := di.BuildApp(ctx)
	if err != nil {
		bootstrapLogger.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	slog := app.LoggerIns()
	slog.Info("application initialized successfully")

	if err := app.Run(ctx, *mode); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("application stopped gracefully")
}
