package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/PortfolioApp/internal/adapter/storage/disk"
	"github.com/GoArmGo/PortfolioApp/internal/app"
	"github.com/GoArmGo/PortfolioApp/internal/auth"
	"github.com/GoArmGo/PortfolioApp/internal/config"
	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/GoArmGo/PortfolioApp/internal/database/client"
	"github.com/GoArmGo/PortfolioApp/internal/database/memory"
	"github.com/GoArmGo/PortfolioApp/internal/database/mongodb"
	"github.com/GoArmGo/PortfolioApp/internal/database/storage"
	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/handler"
	"github.com/GoArmGo/PortfolioApp/internal/imageproc"
	"github.com/GoArmGo/PortfolioApp/internal/logger"
	"github.com/GoArmGo/PortfolioApp/internal/messaging"
	"github.com/GoArmGo/PortfolioApp/internal/rabbitmq"
	"github.com/GoArmGo/PortfolioApp/internal/usecase"
)

const connectTimeout = 15 * time.Second

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Документное хранилище
	store, closers, err := NewDocumentStore(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}

	return assembleWithStore(ctx, cfg, slogger, store, closers)
}

// assembleWithStore подключает брокер и собирает приложение. При ошибке освобождает
// уже открытые ресурсы, включая само хранилище.
func assembleWithStore(ctx context.Context, cfg *config.Config, slogger *slog.Logger, store ports.DocumentStore, closers []func()) (*app.App, error) {
	// 3. Публикация событий
	publisher, closer, err := newPublisher(cfg, slogger)
	if err != nil {
		release(store, closers, slogger)
		return nil, err
	}
	if closer != nil {
		closers = append(closers, closer)
	}

	application, err := Assemble(ctx, cfg, slogger, store, publisher, closers...)
	if err != nil {
		release(store, closers, slogger)
		return nil, err
	}

	slogger.Info("all dependencies initialized", "store_driver", cfg.StoreDriver)
	return application, nil
}

// release закрывает хранилище и вспомогательные ресурсы, если App так и не был создан.
func release(store ports.DocumentStore, closers []func(), slogger *slog.Logger) {
	closeAll(closers)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		slogger.Error("failed to close document store", "error", err)
	}
}

// Assemble собирает use case'ы, обработчики и роутер поверх готового хранилища.
// Вынесено отдельно, чтобы тесты могли собрать приложение на хранилище в памяти.
func Assemble(
	ctx context.Context,
	cfg *config.Config,
	slogger *slog.Logger,
	store ports.DocumentStore,
	publisher ports.EventPublisher,
	closers ...func(),
) (*app.App, error) {
	if err := store.EnsureUniqueIndex(ctx, domain.CollectionCategory, "slug"); err != nil {
		return nil, fmt.Errorf("ensure category slug index: %w", err)
	}

	files, err := disk.NewClient(cfg.UploadDir, slogger)
	if err != nil {
		return nil, err
	}

	checker := auth.NewOwnerKeyChecker(cfg.OwnerKey)
	if cfg.OwnerKey == "" {
		slogger.Warn("OWNER_KEY is not set, /admin/seed will reject every request")
	}

	procOpts := imageproc.Options{
		MaxSidePx:   cfg.MaxSidePx,
		JPEGQuality: cfg.JPEGQuality,
		WEBPQuality: cfg.WEBPQuality,
		MaxPixels:   cfg.MaxImagePixels,
	}

	// Бизнес-логика (usecases)
	categoryUseCase := usecase.NewCategoryUseCase(store, slogger)
	folderUseCase := usecase.NewFolderUseCase(store, slogger)
	imageUseCase := usecase.NewImageUseCase(store, files, slogger)
	contactUseCase := usecase.NewContactUseCase(store, publisher, slogger)
	uploadUseCase := usecase.NewUploadUseCase(store, files, publisher, procOpts, slogger)
	seedUseCase := usecase.NewSeedUseCase(store, checker, slogger)
	statusUseCase := usecase.NewStatusUseCase(store, cfg.StoreDriver, slogger)

	router := app.NewRouter(cfg, app.Handlers{
		Health:   handler.NewHealthHandler(statusUseCase, slogger),
		Category: handler.NewCategoryHandler(categoryUseCase, slogger),
		Folder:   handler.NewFolderHandler(folderUseCase, slogger),
		Image:    handler.NewImageHandler(imageUseCase, slogger),
		Upload:   handler.NewUploadHandler(uploadUseCase, cfg.MaxUploadBytes(), slogger),
		Contact:  handler.NewContactHandler(contactUseCase, slogger),
		Admin:    handler.NewAdminHandler(seedUseCase, slogger),
	}, slogger)

	return app.NewApp(cfg, slogger, store, router, seedUseCase, closers...), nil
}

// NewDocumentStore выбирает бэкенд по STORE_DRIVER. Возвращаемые closers
// освобождают ресурсы, которыми хранилище не владеет само.
func NewDocumentStore(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (ports.DocumentStore, []func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		store, err := mongodb.NewStore(connectCtx, cfg.DatabaseURL, cfg.DatabaseName, slogger)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	case config.StoreDriverPostgres:
		dbClient, err := client.NewClient(cfg.DatabaseURL, slogger)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if err := dbClient.Close(); err != nil {
				slogger.Error("failed to close PostgreSQL client", "error", err)
			}
		}
		return storage.NewPostgresStorage(dbClient.DB, slogger), []func(){closeDB}, nil

	case config.StoreDriverMemory:
		slogger.Warn("using in-memory document store, data is lost on restart")
		return memory.NewStore(slogger), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// newPublisher подключает RabbitMQ, если задан RABBITMQ_URL; иначе события только логируются.
func newPublisher(cfg *config.Config, slogger *slog.Logger) (ports.EventPublisher, func(), error) {
	if cfg.RabbitMQ.RabbitMQURL == "" {
		slogger.Info("RABBITMQ_URL is not set, events will not be published")
		return messaging.NewNopPublisher(slogger), nil, nil
	}

	mq, err := rabbitmq.NewClient(cfg.RabbitMQ.RabbitMQURL, cfg.RabbitMQ.RabbitMQQueueName, slogger)
	if err != nil {
		return nil, nil, err
	}
	return mq, mq.Close, nil
}

func closeAll(closers []func()) {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}
