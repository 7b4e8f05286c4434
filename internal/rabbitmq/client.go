package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/PortfolioApp/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Client представляет собой клиент RabbitMQ, публикующий доменные события
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient подключается к брокеру и объявляет очередь событий
func NewClient(url, queueName string, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	logger.Info("connected to RabbitMQ")

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Идемпотентно: очередь создаётся, только если её ещё нет.
	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}
	logger.Info("queue declared", "queue", q.Name, "messages", q.Messages)

	return &Client{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Close закрывает канал и соединение RabbitMQ
func (c *Client) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("error closing RabbitMQ connection", "error", err)
		} else {
			c.logger.Info("RabbitMQ connection closed")
		}
	}
}

// Publish отправляет событие в очередь в виде JSON.
func (c *Client) Publish(ctx context.Context, event payloads.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         event.Type,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	c.logger.Debug("event published", "queue", c.queue.Name, "type", event.Type)
	return nil
}
