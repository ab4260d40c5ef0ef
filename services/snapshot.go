package services

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"context"
	"fmt"
	"time"

	"github.com/kataras/golog"
)

type SnapshotStore interface {
	AllRestaurants(ctx context.Context) ([]models.Restaurant, error)
	OrdersCreated(ctx context.Context, restaurantID uint, from, to time.Time) ([]models.Order, error)
	Reservations(ctx context.Context, restaurantIDs []uint, from, to time.Time) ([]models.Reservation, error)
	UpsertSnapshot(ctx context.Context, report *models.RestaurantReport) error
}

type SnapshotFailure struct {
	RestaurantID uint   `json:"restaurantID"`
	Error        string `json:"error"`
}

type SnapshotRun struct {
	Date      string            `json:"date"`
	Processed int               `json:"processed"`
	Failed    []SnapshotFailure `json:"failed"`
}

// SnapshotJob writes the daily RestaurantReport rows. It has no timer of its own;
// a scheduler (cron, workflow engine, the admin endpoint) calls Run.
type SnapshotJob struct {
	store  SnapshotStore
	events EventPublisher
	loc    *time.Location
}

func NewSnapshotJob(store SnapshotStore, loc *time.Location) *SnapshotJob {
	if loc == nil {
		loc = time.UTC
	}
	return &SnapshotJob{store: store, loc: loc}
}

func (j *SnapshotJob) WithEvents(events EventPublisher) *SnapshotJob {
	j.events = events
	return j
}

// Run snapshots the calendar day containing day (in the job's time zone) for every restaurant.
// A restaurant that fails is logged and skipped; the rest are still processed.
func (j *SnapshotJob) Run(ctx context.Context, day time.Time) (*SnapshotRun, error) {
	from := startOfDay(day.In(j.loc))
	to := from.AddDate(0, 0, 1)

	restaurants, err := j.store.AllRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	run := &SnapshotRun{Date: from.Format(dateLayout), Failed: []SnapshotFailure{}}
	golog.Infof("🔁 building reports for %d restaurants on %s", len(restaurants), run.Date)

	for i := range restaurants {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		r := &restaurants[i]
		if err := j.snapshotRestaurant(ctx, r, from, to); err != nil {
			golog.Errorf("❌ report for restaurant %d on %s failed: %v", r.ID, run.Date, err)
			utils.SnapshotRuns.WithLabelValues("failed").Inc()
			run.Failed = append(run.Failed, SnapshotFailure{RestaurantID: r.ID, Error: err.Error()})
			continue
		}
		utils.SnapshotRuns.WithLabelValues("ok").Inc()
		run.Processed++
	}

	if j.events != nil {
		err := j.events.Publish(ctx, "report.snapshot", map[string]interface{}{
			"date":      run.Date,
			"processed": run.Processed,
			"failed":    len(run.Failed),
		})
		if err != nil {
			golog.Warnf("⚠️  snapshot event not published: %v", err)
		}
	}
	golog.Infof("✅ reports for %s done: %d ok, %d failed", run.Date, run.Processed, len(run.Failed))
	return run, nil
}

func (j *SnapshotJob) snapshotRestaurant(ctx context.Context, r *models.Restaurant, from, to time.Time) error {
	orders, err := j.store.OrdersCreated(ctx, r.ID, from, to)
	if err != nil {
		return err
	}
	reservations, err := j.store.Reservations(ctx, []uint{r.ID}, from, to)
	if err != nil {
		return err
	}
	report := BuildSnapshot(r, from, orders, reservations)
	return j.store.UpsertSnapshot(ctx, &report)
}
