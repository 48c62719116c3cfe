package queue

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// reconnectDelay paces redial attempts after a lost connection.
const reconnectDelay = 5 * time.Second

type subscription struct {
	subject string
	handler func(data []byte) error
}

// RabbitMQQueue carries the transfer lifecycle events over fanout
// exchanges, one per subject. Queues are anonymous and auto-delete, so
// every subscriber instance sees every event, matching NATS semantics.
// Subscriptions are remembered and re-established after a reconnect.
type RabbitMQQueue struct {
	url string
	log *zap.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	subs    []subscription
}

func NewRabbitMQQueue(url string, log *zap.Logger) (MessageQueue, error) {
	conn, ch, err := dial(url)
	if err != nil {
		return nil, err
	}

	q := &RabbitMQQueue{
		url:     url,
		log:     log,
		conn:    conn,
		channel: ch,
	}
	go q.monitorConnection()

	log.Info("Connected to RabbitMQ", zap.String("url", url))
	return q, nil
}

// dial opens a connection and a channel in one step; a channel failure
// tears the connection down again.
func dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	return conn, ch, nil
}

// declareFanout declares subject's exchange. Idempotent, so publisher
// and subscriber can each declare it without coordination.
func declareFanout(ch *amqp.Channel, subject string) error {
	if err := ch.ExchangeDeclare(subject, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}
	return nil
}

func (q *RabbitMQQueue) Publish(subject string, data []byte) error {
	q.mu.RLock()
	ch := q.channel
	q.mu.RUnlock()

	if ch == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}
	if err := declareFanout(ch, subject); err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType: "application/json",
		Body:        data,
		Timestamp:   time.Now(),
	}
	if err := ch.Publish(subject, "", false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

// Subscribe attaches handler to subject. The subscription is recorded
// before the channel work so a reconnect restores it even if this attempt
// fails.
func (q *RabbitMQQueue) Subscribe(subject string, handler func(data []byte) error) error {
	q.mu.Lock()
	q.subs = append(q.subs, subscription{subject: subject, handler: handler})
	ch := q.channel
	q.mu.Unlock()

	if ch == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}
	return q.consume(ch, subject, handler)
}

func (q *RabbitMQQueue) consume(ch *amqp.Channel, subject string, handler func(data []byte) error) error {
	if err := declareFanout(ch, subject); err != nil {
		return err
	}

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue: %w", err)
	}

	if err := ch.QueueBind(queue.Name, "", subject, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind queue: %w", err)
	}

	msgs, err := ch.Consume(queue.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume: %w", err)
	}

	// The pump dies with its channel; monitorConnection starts a fresh one
	// after reconnecting.
	go func() {
		for msg := range msgs {
			if err := handler(msg.Body); err != nil {
				q.log.Error("Error processing RabbitMQ message",
					zap.String("exchange", subject),
					zap.Error(err),
				)
			}
		}
	}()

	q.log.Info("Subscribed to RabbitMQ exchange", zap.String("exchange", subject))
	return nil
}

func (q *RabbitMQQueue) IsConnected() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.conn != nil && !q.conn.IsClosed()
}

func (q *RabbitMQQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

func (q *RabbitMQQueue) monitorConnection() {
	for {
		q.mu.RLock()
		closed := q.conn.NotifyClose(make(chan *amqp.Error))
		q.mu.RUnlock()

		reason, ok := <-closed
		if !ok {
			// Close() was called; nothing to restore.
			return
		}
		q.log.Warn("RabbitMQ connection lost, reconnecting...", zap.String("reason", reason.Reason))
		q.reconnect()
	}
}

// reconnect redials until it succeeds, then re-establishes every
// recorded subscription on the fresh channel.
func (q *RabbitMQQueue) reconnect() {
	for {
		time.Sleep(reconnectDelay)

		conn, ch, err := dial(q.url)
		if err != nil {
			q.log.Error("Failed to reconnect to RabbitMQ", zap.Error(err))
			continue
		}

		q.mu.Lock()
		q.conn = conn
		q.channel = ch
		subs := append([]subscription(nil), q.subs...)
		q.mu.Unlock()

		for _, sub := range subs {
			if err := q.consume(ch, sub.subject, sub.handler); err != nil {
				q.log.Error("Failed to restore RabbitMQ subscription",
					zap.String("exchange", sub.subject),
					zap.Error(err),
				)
			}
		}

		q.log.Info("Reconnected to RabbitMQ")
		return
	}
}
