package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/Shopify/sarama/mocks"
)

func TestEventLogPublish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var payload map[string]interface{}
		if err := json.Unmarshal(val, &payload); err != nil {
			return err
		}
		if payload["event"] != "order.created" {
			return fmt.Errorf("unexpected event %v", payload["event"])
		}
		if payload["orderID"] != float64(7) {
			return fmt.Errorf("unexpected orderID %v", payload["orderID"])
		}
		if _, ok := payload["timestamp"]; !ok {
			return fmt.Errorf("missing timestamp")
		}
		return nil
	})

	log := NewEventLog(producer, "restaurant_events")
	if err := log.Publish(context.Background(), "order.created", map[string]interface{}{"orderID": 7}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestNilEventLogDropsEvents(t *testing.T) {
	var log *EventLog
	if err := log.Publish(context.Background(), "order.created", nil); err != nil {
		t.Fatalf("nil event log should not fail, got %v", err)
	}
}

func TestNilQueueDropsJobs(t *testing.T) {
	var q *NotificationQueue
	if err := q.PublishJSON(context.Background(), map[string]string{"a": "b"}); err != nil {
		t.Fatalf("nil queue should not fail, got %v", err)
	}
	q.Close()
}
