package storage

import (
	"booking-restaurant-server/config"
	"context"
	"encoding/json"
	"time"

	"github.com/Shopify/sarama"
	"github.com/kataras/golog"
)

var Events *EventLog

// EventLog appends domain events (order lifecycle, report snapshots) to a Kafka topic.
// A nil *EventLog is valid and drops every event.
type EventLog struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventLog(producer sarama.SyncProducer, topic string) *EventLog {
	return &EventLog{producer: producer, topic: topic}
}

func InitializeEvents(cfg config.KafkaConfig) {
	if len(cfg.Brokers) == 0 {
		golog.Warn("⚠️  KAFKA_BROKERS not set, event log disabled")
		return
	}

	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Producer.Return.Successes = true
	kafkaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	producer, err := sarama.NewSyncProducer(cfg.Brokers, kafkaConfig)
	if err != nil {
		golog.Errorf("❌ failed to create Kafka producer, event log disabled: %v", err)
		return
	}
	Events = NewEventLog(producer, cfg.Topic)
	golog.Infof("📨 Kafka event log ready on topic %s", cfg.Topic)
}

// Publish writes one event keyed by its name. The payload map gets "event" and "timestamp" fields.
func (l *EventLog) Publish(ctx context.Context, event string, payload map[string]interface{}) error {
	if l == nil || l.producer == nil {
		return nil
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["event"] = event
	payload["timestamp"] = time.Now().Unix()

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, _, err = l.producer.SendMessage(&sarama.ProducerMessage{
		Topic: l.topic,
		Key:   sarama.StringEncoder(event),
		Value: sarama.StringEncoder(data),
	})
	return err
}

func (l *EventLog) Close() error {
	if l == nil || l.producer == nil {
		return nil
	}
	return l.producer.Close()
}
