package services

import (
	"booking-restaurant-server/models"
	"context"
	"errors"
	"testing"
	"time"
)

type snapshotKey struct {
	restaurant uint
	date       string
}

type memorySnapshotStore struct {
	restaurants []models.Restaurant
	orders      map[uint][]models.Order
	failFor     uint
	rows        map[snapshotKey]models.RestaurantReport
}

func (s *memorySnapshotStore) AllRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return s.restaurants, nil
}

func (s *memorySnapshotStore) OrdersCreated(ctx context.Context, restaurantID uint, from, to time.Time) ([]models.Order, error) {
	if restaurantID == s.failFor {
		return nil, errors.New("connection reset")
	}
	return s.orders[restaurantID], nil
}

func (s *memorySnapshotStore) Reservations(ctx context.Context, ids []uint, from, to time.Time) ([]models.Reservation, error) {
	return nil, nil
}

func (s *memorySnapshotStore) UpsertSnapshot(ctx context.Context, report *models.RestaurantReport) error {
	if s.rows == nil {
		s.rows = map[snapshotKey]models.RestaurantReport{}
	}
	s.rows[snapshotKey{report.RestaurantID, report.Date.Format(dateLayout)}] = *report
	return nil
}

func TestSnapshotJobIsIdempotent(t *testing.T) {
	store := &memorySnapshotStore{
		restaurants: []models.Restaurant{{Model: modelID(1), OwnerID: 7}, {Model: modelID(2), OwnerID: 8}},
		orders: map[uint][]models.Order{
			1: {{Total: 100}, {Total: 25}},
		},
	}
	events := &recordingEvents{}
	job := NewSnapshotJob(store, time.UTC).WithEvents(events)
	day := time.Date(2024, 5, 2, 23, 59, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		run, err := job.Run(context.Background(), day)
		if err != nil {
			t.Fatal(err)
		}
		if run.Processed != 2 || len(run.Failed) != 0 || run.Date != "2024-05-02" {
			t.Errorf("run %d = %+v", i, run)
		}
	}

	if len(store.rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(store.rows))
	}
	row := store.rows[snapshotKey{1, "2024-05-02"}]
	if row.TotalOrders != 2 || row.TotalRevenue != 125 || row.OwnerID != 7 {
		t.Errorf("row = %+v", row)
	}
	if len(events.events) != 2 || events.events[0] != "report.snapshot" {
		t.Errorf("events = %v", events.events)
	}
}

func TestSnapshotJobContinuesAfterFailure(t *testing.T) {
	store := &memorySnapshotStore{
		restaurants: []models.Restaurant{{Model: modelID(1)}, {Model: modelID(2)}, {Model: modelID(3)}},
		failFor:     2,
	}
	run, err := NewSnapshotJob(store, time.UTC).Run(context.Background(), time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if run.Processed != 2 || len(run.Failed) != 1 || run.Failed[0].RestaurantID != 2 {
		t.Errorf("run = %+v", run)
	}
	if _, ok := store.rows[snapshotKey{3, "2024-05-02"}]; !ok {
		t.Errorf("restaurant after the failing one was not processed")
	}
}

func TestSnapshotJobUsesConfiguredTimeZone(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	store := &memorySnapshotStore{restaurants: []models.Restaurant{{Model: modelID(1)}}}
	// 20:00 UTC on the 2nd is already the 3rd in ICT
	run, err := NewSnapshotJob(store, loc).Run(context.Background(), time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if run.Date != "2024-05-03" {
		t.Errorf("date = %s, want 2024-05-03", run.Date)
	}
}
