package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/St1cky1/todo-service/internal/entity"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultTaskEventsQueue = "task_events"

type rabbitSession struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

type RabbitMQClient struct {
	queue   string
	session *Lazy[*rabbitSession]
	mu      sync.Mutex
}

func NewRabbitMQClient(url, queue string) *RabbitMQClient {
	if queue == "" {
		queue = DefaultTaskEventsQueue
	}

	connect := func(ctx context.Context) (*rabbitSession, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, err
		}

		channel, err := conn.Channel()
		if err != nil {
			conn.Close()
			return nil, err
		}

		// Объявляем очередь для событий задач
		_, err = channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, err
		}

		return &rabbitSession{conn: conn, channel: channel}, nil
	}

	return &RabbitMQClient{
		queue: queue,
		session: NewLazy("rabbitmq", connect, func(_ context.Context, s *rabbitSession) error {
			if s.channel != nil {
				s.channel.Close()
			}
			if s.conn != nil {
				return s.conn.Close()
			}
			return nil
		}),
	}
}

// QueueName возвращает имя очереди
func (c *RabbitMQClient) QueueName() string {
	return c.queue
}

func (c *RabbitMQClient) PublishTaskEvent(ctx context.Context, event *entity.TaskEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal task event: %w", err)
	}

	session, err := c.session.Get(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = session.channel.PublishWithContext(
		ctx,
		"",      // exchange
		c.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Action),
			Timestamp:    event.Timestamp,
			Body:         body,
			DeliveryMode: amqp.Persistent, // Сообщения сохраняются на диск
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish task event: %w", err)
	}

	return nil
}

func (c *RabbitMQClient) Close(ctx context.Context) error {
	return c.session.Close(ctx)
}
