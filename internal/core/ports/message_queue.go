package ports

import (
	"context"

	"github.com/GoArmGo/PortfolioApp/internal/messaging/payloads"
)

// EventPublisher публикует доменные события (новое сообщение с формы,
// загруженное изображение) для внешних подписчиков.
type EventPublisher interface {
	Publish(ctx context.Context, event payloads.Event) error
}
