package services

import (
	"booking-restaurant-server/models"
	"context"
	"errors"
	"testing"
	"time"
)

type memoryNotifications struct {
	rows []models.Notification
	fail bool
}

func (m *memoryNotifications) CreateNotification(ctx context.Context, n *models.Notification) error {
	if m.fail {
		return errors.New("db down")
	}
	n.ID = uint(len(m.rows) + 1)
	m.rows = append(m.rows, *n)
	return nil
}

type recordingQueue struct {
	jobs []NotificationJob
	err  error
}

func (q *recordingQueue) PublishJSON(ctx context.Context, v interface{}) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, v.(NotificationJob))
	return nil
}

func TestNotifyOrderCreatedReachesOwnerAndGuest(t *testing.T) {
	store, queue := &memoryNotifications{}, &recordingQueue{}
	ns := NewNotificationService(store, queue)

	guest := uint(5)
	order := &models.Order{Model: modelID(11), UserID: &guest, Name: "Lan", TotalPeople: 4, CheckIn: time.Date(2024, 5, 2, 19, 0, 0, 0, time.UTC)}
	restaurant := &models.Restaurant{Name: "Quan Ngon", OwnerID: 2}
	ns.NotifyOrderCreated(context.Background(), order, restaurant)

	if len(store.rows) != 2 || store.rows[0].UserID != 2 || store.rows[1].UserID != 5 {
		t.Fatalf("rows = %+v", store.rows)
	}
	if store.rows[0].RefType != "order" || store.rows[0].RefID != 11 {
		t.Errorf("reference = %s/%d", store.rows[0].RefType, store.rows[0].RefID)
	}
	if len(queue.jobs) != 2 || queue.jobs[0].NotificationID != 1 {
		t.Errorf("jobs = %+v", queue.jobs)
	}
}

func TestNotifyWalkInOrderOnlyReachesOwner(t *testing.T) {
	store := &memoryNotifications{}
	NewNotificationService(store, nil).NotifyOrderCreated(context.Background(), &models.Order{IsWalkIn: true}, &models.Restaurant{OwnerID: 2})
	if len(store.rows) != 1 {
		t.Errorf("rows = %+v", store.rows)
	}
}

func TestNotifyKeepsRowWhenQueueFails(t *testing.T) {
	store, queue := &memoryNotifications{}, &recordingQueue{err: errors.New("channel closed")}
	ns := NewNotificationService(store, queue)
	if err := ns.Notify(context.Background(), 3, NotificationWelcome, "hi", "hello", "", 0); err != nil {
		t.Fatal(err)
	}
	if len(store.rows) != 1 {
		t.Errorf("rows = %+v", store.rows)
	}
}

func TestNotifyStoreFailure(t *testing.T) {
	queue := &recordingQueue{}
	ns := NewNotificationService(&memoryNotifications{fail: true}, queue)
	if err := ns.Notify(context.Background(), 3, NotificationWelcome, "hi", "hello", "", 0); err == nil {
		t.Fatal("expected error")
	}
	if len(queue.jobs) != 0 {
		t.Errorf("job queued for a notification that was never stored")
	}
}

func TestNotifyOrderStatusSkipsAnonymousOrders(t *testing.T) {
	store := &memoryNotifications{}
	ns := NewNotificationService(store, nil)
	ns.NotifyOrderStatus(context.Background(), &models.Order{Status: models.OrderConfirm}, "Quan Ngon")
	if len(store.rows) != 0 {
		t.Errorf("rows = %+v", store.rows)
	}

	user := uint(8)
	ns.NotifyOrderStatus(context.Background(), &models.Order{UserID: &user, Status: models.OrderConfirm}, "Quan Ngon")
	if len(store.rows) != 1 || store.rows[0].Message != "Quan Ngon confirmed your booking" {
		t.Errorf("rows = %+v", store.rows)
	}
}

func TestNotifyOrderStatusWithoutRestaurantName(t *testing.T) {
	store := &memoryNotifications{}
	guest := uint(5)
	order := &models.Order{Model: modelID(11), UserID: &guest, Status: models.OrderCancelled}
	NewNotificationService(store, nil).NotifyOrderStatus(context.Background(), order, "")

	if len(store.rows) != 1 {
		t.Fatalf("rows = %+v", store.rows)
	}
	if got := store.rows[0].Message; got != "Your booking at the restaurant was cancelled" {
		t.Errorf("message = %q", got)
	}
}
