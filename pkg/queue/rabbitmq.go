package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meow-site/pkg/config"
	"meow-site/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange        = "meow_events"
	AuditQueueName        = "meow_audit"
	NotificationQueueName = "meow_notifications"
)

// Routing keys.
const (
	EventAccountMuted    = "account.muted"
	EventAccountUnmuted  = "account.unmuted"
	EventAccountBanned   = "account.banned"
	EventAccountUnbanned = "account.unbanned"
	EventAccountDeleted  = "account.deleted"
	EventUserFollowed    = "user.followed"
	EventPostLiked       = "post.liked"
	EventCommentCreated  = "comment.created"
)

type Event struct {
	Type       string                 `json:"type"`
	ActorID    string                 `json:"actor_id"`
	SubjectID  string                 `json:"subject_id"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

var bindings = map[string][]string{
	AuditQueueName:        {"account.*"},
	NotificationQueueName: {"user.*", "post.*", "comment.*"},
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		EventsExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	for queueName, keys := range bindings {
		if _, err := channel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
		}
		for _, key := range keys {
			if err := channel.QueueBind(queueName, key, EventsExchange, false, nil); err != nil {
				channel.Close()
				conn.Close()
				return nil, fmt.Errorf("failed to bind queue %s: %w", queueName, err)
			}
		}
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publish sends a persistent event routed by its type.
func (c *Client) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.PublishWithContext(ctx,
		EventsExchange, // exchange
		event.Type,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish event to exchange=%s, routing_key=%s: %v", EventsExchange, event.Type, err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Consume delivers events from queueName to handler until ctx is done.
// Malformed messages are dropped; handler errors requeue the message.
func (c *Client) Consume(ctx context.Context, queueName string, handler func(Event) error) error {
	msgs, err := c.channel.ConsumeWithContext(ctx,
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}

			var event Event
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				c.logger.Error("[RABBITMQ] Failed to unmarshal event: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false)
				continue
			}

			if err := handler(event); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed for event %s: %v", event.Type, err)
				msg.Nack(false, true)
				continue
			}

			msg.Ack(false)
		}
	}
}
