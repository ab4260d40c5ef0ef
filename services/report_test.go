package services

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"encoding/json"
	"testing"
	"time"
)

func completedAt(total float64, checkout time.Time) models.Order {
	return models.Order{Status: models.OrderCompleted, Total: total, CheckIn: checkout, CheckoutAt: &checkout}
}

func TestChartPeriodBuckets(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	// Wednesday
	now := time.Date(2024, 2, 14, 15, 30, 0, 0, loc)

	tests := []struct {
		rng       string
		wantKeys  int
		wantFirst string
		wantStart time.Time
	}{
		{RangeDaily, 24, "0", time.Date(2024, 2, 14, 0, 0, 0, 0, loc)},
		{RangeWeekly, 7, "2024-02-12", time.Date(2024, 2, 12, 0, 0, 0, 0, loc)},
		{RangeMonthly, 29, "2024-02-01", time.Date(2024, 2, 1, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		start, _, keys, err := ChartPeriod(tt.rng, now)
		if err != nil {
			t.Fatalf("%s: %v", tt.rng, err)
		}
		if len(keys) != tt.wantKeys {
			t.Errorf("%s: %d buckets, want %d", tt.rng, len(keys), tt.wantKeys)
		}
		if keys[0] != tt.wantFirst {
			t.Errorf("%s: first bucket %q, want %q", tt.rng, keys[0], tt.wantFirst)
		}
		if !start.Equal(tt.wantStart) {
			t.Errorf("%s: start %v, want %v", tt.rng, start, tt.wantStart)
		}
	}
}

func TestChartPeriodWeekStartsMondayOnSunday(t *testing.T) {
	sunday := time.Date(2024, 2, 18, 9, 0, 0, 0, time.UTC)
	start, end, _, err := ChartPeriod(RangeWeekly, sunday)
	if err != nil {
		t.Fatal(err)
	}
	if start.Weekday() != time.Monday || start.Day() != 12 {
		t.Errorf("start = %v, want Monday 12th", start)
	}
	if !sunday.Before(end) {
		t.Errorf("sunday %v not inside week ending %v", sunday, end)
	}
}

func TestChartPeriodRejectsUnknownRange(t *testing.T) {
	_, _, _, err := ChartPeriod("yearly", time.Now())
	if !utils.IsKind(err, utils.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildRevenueChartDaily(t *testing.T) {
	now := time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC)
	orders := []models.Order{
		completedAt(100, time.Date(2024, 3, 5, 12, 10, 0, 0, time.UTC)),
		completedAt(50, time.Date(2024, 3, 5, 12, 50, 0, 0, time.UTC)),
		completedAt(30, time.Date(2024, 3, 5, 19, 0, 0, 0, time.UTC)),
		// previous day
		completedAt(999, time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)),
		// not completed
		{Status: models.OrderPending, Total: 500, CheckoutAt: ptrTime(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))},
		// completed without a checkout time
		{Status: models.OrderCompleted, Total: 700},
	}

	points, err := BuildRevenueChart(RangeDaily, now, orders)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 24 {
		t.Fatalf("got %d points, want 24", len(points))
	}
	if points[12].Key != "12" || points[12].Total != 150 {
		t.Errorf("hour 12 = %+v, want 150", points[12])
	}
	if points[19].Total != 30 {
		t.Errorf("hour 19 = %+v, want 30", points[19])
	}
	var sum float64
	for _, p := range points {
		sum += p.Total
	}
	if sum != 180 {
		t.Errorf("sum = %v, want 180", sum)
	}
}

func TestBuildRevenueChartMonthlyZeroFilled(t *testing.T) {
	now := time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC)
	points, err := BuildRevenueChart(RangeMonthly, now, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 28 {
		t.Fatalf("got %d points, want 28", len(points))
	}
	for _, p := range points {
		if p.Total != 0 {
			t.Errorf("bucket %s = %v, want 0", p.Key, p.Total)
		}
	}
	if points[27].Key != "2023-02-28" {
		t.Errorf("last key = %s", points[27].Key)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024", "2", "", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsMonth() || p.End.Sub(p.Start) != 29*24*time.Hour {
		t.Errorf("month period = %+v", p)
	}

	p, err = ParsePeriod("2024", "02", "29", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if p.IsMonth() || p.Start.Day() != 29 || p.End.Sub(p.Start) != 24*time.Hour {
		t.Errorf("day period = %+v", p)
	}

	bad := [][3]string{
		{"", "2", ""},
		{"2024", "", ""},
		{"abc", "2", ""},
		{"2024", "13", ""},
		{"2023", "2", "29"},
		{"2024", "4", "0"},
	}
	for _, b := range bad {
		if _, err := ParsePeriod(b[0], b[1], b[2], time.UTC); !utils.IsKind(err, utils.KindValidation) {
			t.Errorf("ParsePeriod(%q) = %v, want validation error", b, err)
		}
	}
}

func TestAverageRating(t *testing.T) {
	if got := AverageRating(nil); got != 0 {
		t.Errorf("empty = %v, want 0", got)
	}
	if got := AverageRating([]int{0, 0}); got != 0 {
		t.Errorf("unrated = %v, want 0", got)
	}
	if got := AverageRating([]int{5, 4, 4, 0}); got != 4.3 {
		t.Errorf("got %v, want 4.3", got)
	}
}

func TestTopSellingItemsLimitAndOrder(t *testing.T) {
	var orders []models.Order
	for i := uint(1); i <= 7; i++ {
		orders = append(orders, models.Order{Items: []models.OrderItem{
			{MenuItemID: i, Name: "dish", Quantity: int(i), PriceAtBooking: 10},
		}})
	}
	// ties keep first-seen order
	orders = append(orders, models.Order{Items: []models.OrderItem{{MenuItemID: 1, Quantity: 6, PriceAtBooking: 10}}})

	top := TopSellingItems(orders, 5)
	if len(top) != 5 {
		t.Fatalf("got %d items, want 5", len(top))
	}
	want := []uint{1, 7, 6, 5, 4}
	for i, id := range want {
		if top[i].MenuItemID != id {
			t.Errorf("top[%d] = %d, want %d", i, top[i].MenuItemID, id)
		}
	}
	if top[0].Quantity != 7 || top[0].Revenue != 70 {
		t.Errorf("top[0] = %+v", top[0])
	}
}

func TestBuildPeriodReport(t *testing.T) {
	period, _ := ParsePeriod("2024", "5", "", time.UTC)
	orders := []models.Order{
		{Status: models.OrderCompleted, Total: 100, CheckIn: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC),
			Items: []models.OrderItem{{MenuItemID: 1, Name: "Pho", Quantity: 2, PriceAtBooking: 50}}},
		{Status: models.OrderCompleted, Total: 60, CheckIn: time.Date(2024, 5, 2, 19, 0, 0, 0, time.UTC)},
		{Status: models.OrderCompleted, Total: 40, CheckIn: time.Date(2024, 5, 9, 12, 0, 0, 0, time.UTC)},
		{Status: models.OrderCancelled, Total: 1000, CheckIn: time.Date(2024, 5, 9, 12, 0, 0, 0, time.UTC)},
	}
	reservations := []models.Reservation{{TotalPeople: 4, Rating: 5}, {TotalPeople: 2, Rating: 0}, {TotalPeople: 3, Rating: 4}}

	report := BuildPeriodReport(period, []uint{1}, orders, reservations)
	if report.TotalOrders != 3 || report.TotalRevenue != 200 {
		t.Errorf("totals = %d / %v, want 3 / 200", report.TotalOrders, report.TotalRevenue)
	}
	if report.TotalGuests != 9 || report.AvgRating != 4.5 {
		t.Errorf("guests / rating = %d / %v", report.TotalGuests, report.AvgRating)
	}
	if len(report.TopItems) != 1 || report.TopItems[0].Name != "Pho" {
		t.Errorf("top items = %+v", report.TopItems)
	}
	if len(report.DailyRevenue) != 2 {
		t.Fatalf("daily revenue = %+v, want 2 days", report.DailyRevenue)
	}
	if report.DailyRevenue[0].Date != "2024-05-02" || report.DailyRevenue[0].Orders != 2 || report.DailyRevenue[0].Revenue != 160 {
		t.Errorf("first day = %+v", report.DailyRevenue[0])
	}

	day, _ := ParsePeriod("2024", "5", "2", time.UTC)
	if r := BuildPeriodReport(day, []uint{1}, orders[:2], nil); r.DailyRevenue != nil {
		t.Errorf("day report should not carry a daily breakdown: %+v", r.DailyRevenue)
	}
}

func TestPeriodReportDatesOrdersByCheckIn(t *testing.T) {
	period, _ := ParsePeriod("2024", "5", "", time.UTC)
	checkout := time.Date(2024, 6, 1, 0, 30, 0, 0, time.UTC)
	orders := []models.Order{
		{Status: models.OrderCompleted, Total: 80, CheckIn: time.Date(2024, 5, 31, 22, 0, 0, 0, time.UTC), CheckoutAt: &checkout},
	}

	report := BuildPeriodReport(period, []uint{1}, orders, nil)
	if len(report.DailyRevenue) != 1 || report.DailyRevenue[0].Date != "2024-05-31" {
		t.Fatalf("daily revenue = %+v, want the check-in date", report.DailyRevenue)
	}
}

func TestBuildSnapshot(t *testing.T) {
	restaurant := &models.Restaurant{Model: modelID(3), OwnerID: 9}
	day := time.Date(2024, 5, 2, 17, 45, 0, 0, time.UTC)
	orders := []models.Order{
		{Total: 120, Items: []models.OrderItem{{MenuItemID: 1, Name: "Pho", Quantity: 3, PriceAtBooking: 40}}},
		{Total: 80},
	}
	reservations := []models.Reservation{{UserID: 1}, {UserID: 1}, {UserID: 2}}

	report := BuildSnapshot(restaurant, day, orders, reservations)
	if report.RestaurantID != 3 || report.OwnerID != 9 {
		t.Errorf("ids = %d / %d", report.RestaurantID, report.OwnerID)
	}
	if !report.Date.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", report.Date)
	}
	if report.TotalOrders != 2 || report.TotalRevenue != 200 || report.TotalUsers != 2 || report.ReservationCount != 3 {
		t.Errorf("report = %+v", report)
	}
	var top []TopItem
	if err := json.Unmarshal(report.TopSellingItems, &top); err != nil || len(top) != 1 || top[0].Quantity != 3 {
		t.Errorf("top = %s (%v)", report.TopSellingItems, err)
	}
}

func TestBuildMonthlyRollupTotalRow(t *testing.T) {
	reports := []models.RestaurantReport{
		{RestaurantID: 1, Restaurant: &models.Restaurant{Name: "A"}, TotalOrders: 2, TotalRevenue: 10.5, TotalUsers: 1, ReservationCount: 3},
		{RestaurantID: 2, TotalOrders: 5, TotalRevenue: 20.25, TotalUsers: 4, ReservationCount: 1},
	}
	rows := BuildMonthlyRollup(reports)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].RestaurantName != "A" {
		t.Errorf("row name = %q", rows[0].RestaurantName)
	}
	total := rows[2]
	if total.RestaurantName != "TOTAL" || total.RestaurantID != nil {
		t.Errorf("last row = %+v", total)
	}
	if total.TotalOrders != 7 || total.TotalRevenue != 30.75 || total.TotalUsers != 5 || total.ReservationCount != 4 {
		t.Errorf("total = %+v", total)
	}

	empty := BuildMonthlyRollup(nil)
	if len(empty) != 1 || empty[0].TotalOrders != 0 {
		t.Errorf("empty rollup = %+v", empty)
	}
}

func TestBuildPrepList(t *testing.T) {
	orders := []models.Order{
		{CheckIn: time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC), Items: []models.OrderItem{
			{MenuItemID: 2, Name: "Spring roll", Quantity: 2},
			{MenuItemID: 1, Name: "Pho", Quantity: 1},
		}},
		{CheckIn: time.Date(2024, 5, 3, 19, 0, 0, 0, time.UTC), Items: []models.OrderItem{{MenuItemID: 1, Name: "Pho", Quantity: 4}}},
		{CheckIn: time.Date(2024, 5, 2, 19, 0, 0, 0, time.UTC), Items: []models.OrderItem{{MenuItemID: 1, Name: "Pho", Quantity: 1}}},
	}
	list := BuildPrepList(orders, time.UTC)
	if len(list) != 3 {
		t.Fatalf("got %+v", list)
	}
	if list[0].Date != "2024-05-02" || list[1].Name != "Pho" || list[1].TotalQuantity != 5 || list[2].Name != "Spring roll" {
		t.Errorf("prep list = %+v", list)
	}
}

func TestBuildMonthlyReservations(t *testing.T) {
	reservations := []models.Reservation{
		{CheckIn: time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC), Orders: []models.Order{{}, {}}},
		{CheckIn: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), Orders: []models.Order{{}}},
		{CheckIn: time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC)},
	}
	out := BuildMonthlyReservations(reservations, time.UTC)
	if out.TotalOrders != 3 || len(out.StatsByDate) != 2 {
		t.Fatalf("out = %+v", out)
	}
	if out.StatsByDate[0].Date != "2024-05-01" || out.StatsByDate[1].TotalOrders != 2 {
		t.Errorf("stats = %+v", out.StatsByDate)
	}
	if empty := BuildMonthlyReservations(nil, time.UTC); empty.Reservations == nil || len(empty.StatsByDate) != 0 {
		t.Errorf("empty = %+v", empty)
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
