package storage

import (
	"booking-restaurant-server/config"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/kataras/golog"
	amqp "github.com/rabbitmq/amqp091-go"
)

var Queue *NotificationQueue

// NotificationQueue publishes notification delivery jobs to a durable fanout exchange.
// A nil *NotificationQueue is valid and drops every job.
type NotificationQueue struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func InitializeQueue(cfg config.RabbitMQConfig) {
	if cfg.URL == "" {
		golog.Warn("⚠️  RABBITMQ_URL not set, notification delivery jobs disabled")
		return
	}
	q, err := DialQueue(cfg.URL, cfg.ExchangeName)
	if err != nil {
		golog.Errorf("❌ failed to connect to RabbitMQ, notification delivery jobs disabled: %v", err)
		return
	}
	Queue = q
	golog.Infof("🐇 RabbitMQ exchange %s ready", cfg.ExchangeName)
}

func DialQueue(url, exchange string) (*NotificationQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &NotificationQueue{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishJSON publishes v as a persistent JSON message.
func (q *NotificationQueue) PublishJSON(ctx context.Context, v interface{}) error {
	if q == nil {
		return nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ch == nil {
		return errors.New("queue channel closed")
	}
	return q.ch.PublishWithContext(ctx, q.exchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
}

func (q *NotificationQueue) Close() {
	if q == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ch != nil {
		_ = q.ch.Close()
		q.ch = nil
	}
	if q.conn != nil {
		_ = q.conn.Close()
	}
}
