package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"notify-hub/pkg/config"
	"notify-hub/pkg/logger"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventQueueName  = "notification_events"
	EventExchange   = "notifications"
	EventRoutingKey = "created"
)

// Event is the wire format producers publish when an application event should
// result in a stored notification.
type Event struct {
	ID         string `json:"id"`
	Type       int    `json:"type"`
	ForUserID  int64  `json:"for_user_id"`
	FromUserID *int64 `json:"from_user_id,omitempty"`
	Priority   int    `json:"priority,omitempty"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
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
		EventExchange, // name
		"direct",      // type
		true,          // durable
		false,         // auto-deleted
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		EventQueueName, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		amqp.Table{
			"x-max-priority": 10,
		},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		EventQueueName,
		EventRoutingKey,
		EventExchange,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
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

// PublishEvent publishes a notification create event to the queue. An event id
// is assigned if the producer did not set one.
func (c *Client) PublishEvent(event Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	priority := event.Priority
	if priority < 0 {
		priority = 0
	}
	if priority > 10 {
		priority = 10
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.Publish(
		EventExchange,
		EventRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.ID,
			Body:         eventJSON,
			Priority:     uint8(priority),
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[QUEUE] Failed to publish event %s: %v", event.ID, err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	c.logger.Info("[QUEUE] Published notification event id=%s type=%d for_user=%d", event.ID, event.Type, event.ForUserID)
	return nil
}

// ConsumeEvents delivers notification create events to the handler. Handler
// failures are nacked with requeue; malformed payloads are dropped.
func (c *Client) ConsumeEvents(handler func(event Event) error) error {
	msgs, err := c.channel.Consume(
		EventQueueName,
		"",    // consumer
		false, // auto-ack (ack after processing)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[QUEUE] Consuming notification events from %s", EventQueueName)

	go func() {
		for msg := range msgs {
			var event Event
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				c.logger.Error("[QUEUE] Failed to unmarshal event: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false)
				continue
			}

			if err := handler(event); err != nil {
				c.logger.Error("[QUEUE] Handler failed for event %s: %v", event.ID, err)
				msg.Nack(false, true)
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}

// GetQueueLength returns the number of pending messages in the event queue.
func (c *Client) GetQueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(EventQueueName)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}
