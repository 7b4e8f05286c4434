package messaging

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/PortfolioApp/internal/messaging/payloads"
)

// NopPublisher используется, когда брокер не настроен: события только пишутся в лог.
type NopPublisher struct {
	logger *slog.Logger
}

func NewNopPublisher(logger *slog.Logger) *NopPublisher {
	return &NopPublisher{logger: logger}
}

func (p *NopPublisher) Publish(ctx context.Context, event payloads.Event) error {
	p.logger.Debug("event dropped, no broker configured", "type", event.Type)
	return nil
}
