package services

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"context"
	"testing"
	"time"

	"golang.org/x/exp/slices"
)

// fakeReportStore answers from fixed data and counts how often it was asked anything.
type fakeReportStore struct {
	owners       map[uint]uint // restaurant -> owner
	orders       []models.Order
	reservations []models.Reservation
	snapshots    []models.RestaurantReport
	calls        int
	lastIDs      []uint
}

func (s *fakeReportStore) RestaurantOwner(ctx context.Context, restaurantID uint) (uint, error) {
	s.calls++
	owner, ok := s.owners[restaurantID]
	if !ok {
		return 0, utils.NewNotFoundError("restaurant")
	}
	return owner, nil
}

func (s *fakeReportStore) RestaurantIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	s.calls++
	var ids []uint
	for rid, owner := range s.owners {
		if owner == ownerID {
			ids = append(ids, rid)
		}
	}
	return ids, nil
}

func (s *fakeReportStore) CompletedOrders(ctx context.Context, ids []uint, from, to time.Time) ([]models.Order, error) {
	s.calls++
	s.lastIDs = ids
	var out []models.Order
	for _, o := range s.orders {
		if slices.Contains(ids, o.RestaurantID) && o.Status == models.OrderCompleted && !o.CheckIn.Before(from) && o.CheckIn.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeReportStore) Reservations(ctx context.Context, ids []uint, from, to time.Time) ([]models.Reservation, error) {
	s.calls++
	var out []models.Reservation
	for _, r := range s.reservations {
		if slices.Contains(ids, r.RestaurantID) && !r.CheckIn.Before(from) && r.CheckIn.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeReportStore) CheckedOutOrders(ctx context.Context, restaurantID uint, from, to time.Time) ([]models.Order, error) {
	s.calls++
	return s.orders, nil
}

func (s *fakeReportStore) UpcomingOrders(ctx context.Context, restaurantID uint, from, to time.Time) ([]models.Order, error) {
	s.calls++
	return nil, nil
}

func (s *fakeReportStore) OrderTotals(ctx context.Context, restaurantID uint) (int64, int64, int64, error) {
	s.calls++
	return int64(len(s.orders)), 1, 2, nil
}

func (s *fakeReportStore) CompletedRevenue(ctx context.Context, restaurantID uint, from, to time.Time) (float64, error) {
	s.calls++
	return 42, nil
}

func (s *fakeReportStore) Snapshots(ctx context.Context, ids []uint, from, to time.Time) ([]models.RestaurantReport, error) {
	s.calls++
	s.lastIDs = ids
	return s.snapshots, nil
}

func (s *fakeReportStore) ReservationsWithOrders(ctx context.Context, ids []uint, from, to time.Time) ([]models.Reservation, error) {
	s.calls++
	s.lastIDs = ids
	return s.reservations, nil
}

func newReportFixture() (*fakeReportStore, *ReportService) {
	store := &fakeReportStore{
		owners: map[uint]uint{1: 10, 2: 10, 3: 20},
		orders: []models.Order{
			{RestaurantID: 1, Status: models.OrderCompleted, Total: 100, CheckIn: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)},
			{RestaurantID: 2, Status: models.OrderCompleted, Total: 50, CheckIn: time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)},
			{RestaurantID: 3, Status: models.OrderCompleted, Total: 70, CheckIn: time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)},
		},
	}
	svc := NewReportService(store, time.UTC)
	svc.now = func() time.Time { return time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC) }
	return store, svc
}

func ownerAuth(id uint) *utils.AuthContext {
	return &utils.AuthContext{UserID: id, Role: models.RoleOwner}
}

func managerAuth(id, restaurantID uint) *utils.AuthContext {
	return &utils.AuthContext{UserID: id, Role: models.RoleManager, RestaurantID: &restaurantID}
}

var may2024 = PeriodQuery{Year: "2024", Month: "5"}

func TestReportValidatesBeforeTouchingStorage(t *testing.T) {
	store, svc := newReportFixture()
	ctx := context.Background()

	if _, err := svc.ReportByRestaurant(ctx, ownerAuth(10), 1, PeriodQuery{Month: "5"}); !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("missing year: %v", err)
	}
	if _, err := svc.ReportByOwner(ctx, ownerAuth(10), 0, 0, PeriodQuery{Year: "2024"}); !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("missing month: %v", err)
	}
	if _, err := svc.RevenueChart(ctx, ownerAuth(10), 1, "hourly"); !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("bad range: %v", err)
	}
	if _, err := svc.MenuItemsToPrepare(ctx, ownerAuth(10), 1, 0); !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("bad days: %v", err)
	}
	if store.calls != 0 {
		t.Errorf("store was queried %d times for invalid input", store.calls)
	}
}

func TestReportByRestaurantAuthorization(t *testing.T) {
	_, svc := newReportFixture()
	ctx := context.Background()

	if _, err := svc.ReportByRestaurant(ctx, ownerAuth(20), 1, may2024); !utils.IsKind(err, utils.KindAuthorization) {
		t.Errorf("foreign owner: %v", err)
	}
	if _, err := svc.ReportByRestaurant(ctx, managerAuth(5, 2), 1, may2024); !utils.IsKind(err, utils.KindAuthorization) {
		t.Errorf("manager of another restaurant: %v", err)
	}
	if _, err := svc.ReportByRestaurant(ctx, ownerAuth(10), 99, may2024); !utils.IsKind(err, utils.KindNotFound) {
		t.Errorf("unknown restaurant: %v", err)
	}
	if _, err := svc.ReportByRestaurant(ctx, nil, 1, may2024); !utils.IsKind(err, utils.KindAuthorization) {
		t.Errorf("anonymous: %v", err)
	}

	report, err := svc.ReportByRestaurant(ctx, managerAuth(5, 1), 1, may2024)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalOrders != 1 || report.TotalRevenue != 100 {
		t.Errorf("report = %+v", report)
	}
	if report.AvgRating != 0 {
		t.Errorf("avgRating without reservations = %v, want 0", report.AvgRating)
	}

	admin := &utils.AuthContext{UserID: 1, Role: models.RoleAdmin}
	if _, err := svc.ReportByRestaurant(ctx, admin, 3, may2024); err != nil {
		t.Errorf("admin: %v", err)
	}
}

func TestReportByOwnerScopes(t *testing.T) {
	store, svc := newReportFixture()
	ctx := context.Background()

	report, err := svc.ReportByOwner(ctx, ownerAuth(10), 0, 0, may2024)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalOrders != 2 || report.TotalRevenue != 150 {
		t.Errorf("owner report = %+v", report)
	}

	report, err = svc.ReportByOwner(ctx, ownerAuth(10), 0, 2, may2024)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalRevenue != 50 || len(store.lastIDs) != 1 || store.lastIDs[0] != 2 {
		t.Errorf("narrowed report = %+v, ids %v", report, store.lastIDs)
	}

	if _, err := svc.ReportByOwner(ctx, ownerAuth(10), 0, 3, may2024); !utils.IsKind(err, utils.KindAuthorization) {
		t.Errorf("restaurant of another owner: %v", err)
	}
	if _, err := svc.ReportByOwner(ctx, ownerAuth(10), 20, 0, may2024); !utils.IsKind(err, utils.KindAuthorization) {
		t.Errorf("other owner id: %v", err)
	}
	if _, err := svc.ReportByOwner(ctx, managerAuth(5, 1), 0, 0, may2024); !utils.IsKind(err, utils.KindAuthorization) {
		t.Errorf("manager: %v", err)
	}

	admin := &utils.AuthContext{UserID: 1, Role: models.RoleSuperAdmin}
	report, err = svc.ReportByOwner(ctx, admin, 20, 0, may2024)
	if err != nil || report.TotalRevenue != 70 {
		t.Errorf("admin on owner 20 = %+v, %v", report, err)
	}
}

func TestReportByOwnerWithoutRestaurants(t *testing.T) {
	store, svc := newReportFixture()
	report, err := svc.ReportByOwner(context.Background(), ownerAuth(77), 0, 0, may2024)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalOrders != 0 || len(report.TopItems) != 0 || report.RestaurantIDs == nil {
		t.Errorf("empty owner report = %+v", report)
	}
	if store.lastIDs != nil {
		t.Errorf("orders were queried for an owner without restaurants")
	}
}

func TestReportByManager(t *testing.T) {
	_, svc := newReportFixture()
	ctx := context.Background()

	report, err := svc.ReportByManager(ctx, managerAuth(5, 3), PeriodQuery{Year: "2024", Month: "5", Day: "3"})
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalRevenue != 70 || report.DailyRevenue != nil {
		t.Errorf("manager day report = %+v", report)
	}
	if _, err := svc.ReportByManager(ctx, ownerAuth(10), may2024); !utils.IsKind(err, utils.KindAuthorization) {
		t.Errorf("owner calling manager report: %v", err)
	}
}

func TestMonthlyRollupScopes(t *testing.T) {
	store, svc := newReportFixture()
	store.snapshots = []models.RestaurantReport{{RestaurantID: 1, TotalOrders: 3, TotalRevenue: 30}}
	ctx := context.Background()

	admin := &utils.AuthContext{UserID: 1, Role: models.RoleAdmin}
	rows, err := svc.MonthlyRollup(ctx, admin, 0, 0, may2024)
	if err != nil {
		t.Fatal(err)
	}
	if store.lastIDs != nil {
		t.Errorf("admin without filters should query every restaurant, got %v", store.lastIDs)
	}
	if len(rows) != 2 || rows[1].TotalOrders != 3 {
		t.Errorf("rows = %+v", rows)
	}

	store.lastIDs = []uint{999}
	rows, err = svc.MonthlyRollup(ctx, ownerAuth(77), 0, 0, may2024)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].RestaurantName != "TOTAL" {
		t.Errorf("owner without restaurants = %+v", rows)
	}
	if len(store.lastIDs) != 1 || store.lastIDs[0] != 999 {
		t.Errorf("snapshots were queried for an owner without restaurants")
	}
}

func TestRevenueChartBucketCounts(t *testing.T) {
	_, svc := newReportFixture()
	ctx := context.Background()
	want := map[string]int{RangeDaily: 24, RangeWeekly: 7, RangeMonthly: 31, "": 24}
	for rng, n := range want {
		points, err := svc.RevenueChart(ctx, ownerAuth(10), 1, rng)
		if err != nil {
			t.Fatalf("%q: %v", rng, err)
		}
		if len(points) != n {
			t.Errorf("%q: %d points, want %d", rng, len(points), n)
		}
	}
}

func TestSummary(t *testing.T) {
	_, svc := newReportFixture()
	summary, err := svc.Summary(context.Background(), ownerAuth(10), 1)
	if err != nil {
		t.Fatal(err)
	}
	if summary.TotalOrders != 3 || summary.TotalRevenueToday != 42 || summary.TotalRevenueMonth != 42 || summary.TotalPeople != 2 {
		t.Errorf("summary = %+v", summary)
	}
	if _, err := svc.Summary(context.Background(), ownerAuth(20), 1); !utils.IsKind(err, utils.KindAuthorization) {
		t.Errorf("foreign owner: %v", err)
	}
}
