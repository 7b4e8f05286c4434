package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/GoArmGo/PortfolioApp/internal/domain"
	"github.com/GoArmGo/PortfolioApp/internal/messaging/payloads"
)

// contactUseCase implements ContactUseCase
type contactUseCase struct {
	store     ports.DocumentStore
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewContactUseCase(store ports.DocumentStore, publisher ports.EventPublisher, logger *slog.Logger) ContactUseCase {
	return &contactUseCase{store: store, publisher: publisher, logger: logger}
}

func (uc *contactUseCase) SubmitContact(ctx context.Context, message domain.ContactMessage) (*domain.ContactMessage, error) {
	message.Email = strings.TrimSpace(message.Email)
	message.Budget = blankToNil(message.Budget)
	message.ShootType = blankToNil(message.ShootType)
	if err := message.Validate(); err != nil {
		return nil, domain.NewValidationError(err)
	}

	docs, err := uc.store.Create(ctx, domain.CollectionContactMessage, message.Document())
	if err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}

	created, err := decodeDocument[domain.ContactMessage](docs[0])
	if err != nil {
		return nil, err
	}
	uc.logger.Info("contact message received", "id", created.ID)

	publish(ctx, uc.publisher, uc.logger, payloads.NewEvent(payloads.EventContactReceived, payloads.ContactReceived{
		ID:        created.ID,
		Name:      created.Name,
		Email:     created.Email,
		ShootType: created.ShootType,
	}))
	return &created, nil
}

// publish отправляет событие; сбой брокера не влияет на результат запроса.
func publish(ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger, event payloads.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish event", "type", event.Type, "error", err)
	}
}
