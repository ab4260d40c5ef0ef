package services

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	RangeDaily   = "daily"
	RangeWeekly  = "weekly"
	RangeMonthly = "monthly"

	dateLayout   = "2006-01-02"
	topItemLimit = 5
	totalRowName = "TOTAL"
)

type RevenuePoint struct {
	Key   string  `json:"_id"`
	Total float64 `json:"total"`
}

// ChartPeriod returns the period [start, end) covered by a revenue chart and its bucket keys, in now's location.
func ChartPeriod(rng string, now time.Time) (start, end time.Time, keys []string, err error) {
	today := startOfDay(now)
	switch rng {
	case RangeDaily:
		start, end = today, today.AddDate(0, 0, 1)
		keys = make([]string, 24)
		for h := range keys {
			keys[h] = strconv.Itoa(h)
		}
	case RangeWeekly:
		start = today.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
		end = start.AddDate(0, 0, 7)
		keys = dateKeys(start, end)
	case RangeMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)
		keys = dateKeys(start, end)
	default:
		return time.Time{}, time.Time{}, nil, utils.NewValidationError("range must be one of daily, weekly, monthly")
	}
	return start, end, keys, nil
}

func bucketKey(rng string, t time.Time) string {
	if rng == RangeDaily {
		return strconv.Itoa(t.Hour())
	}
	return t.Format(dateLayout)
}

// BuildRevenueChart sums completed orders into the chart buckets by their recorded checkout time.
// Every bucket is present in the result, empty ones with a zero total.
func BuildRevenueChart(rng string, now time.Time, orders []models.Order) ([]RevenuePoint, error) {
	start, end, keys, err := ChartPeriod(rng, now)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal, len(keys))
	for _, o := range orders {
		if o.Status != models.OrderCompleted || o.CheckoutAt == nil {
			continue
		}
		at := o.CheckoutAt.In(now.Location())
		if at.Before(start) || !at.Before(end) {
			continue
		}
		key := bucketKey(rng, at)
		sums[key] = sums[key].Add(decimal.NewFromFloat(o.Total))
	}

	points := make([]RevenuePoint, len(keys))
	for i, key := range keys {
		total, _ := sums[key].Float64()
		points[i] = RevenuePoint{Key: key, Total: total}
	}
	return points, nil
}

// Period is a calendar month, or a single day of it, in a given location.
type Period struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Day   int       `json:"day,omitempty"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p Period) IsMonth() bool { return p.Day == 0 }

// ParsePeriod validates year / month / optional day query values.
func ParsePeriod(year, month, day string, loc *time.Location) (Period, error) {
	year, month, day = strings.TrimSpace(year), strings.TrimSpace(month), strings.TrimSpace(day)
	if year == "" || month == "" {
		return Period{}, utils.NewValidationError("year and month are required")
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 2000 || y > 9999 {
		return Period{}, utils.NewValidationError("invalid year %q", year)
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return Period{}, utils.NewValidationError("invalid month %q", month)
	}

	p := Period{Year: y, Month: m}
	monthStart := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, loc)
	if day == "" {
		p.Start, p.End = monthStart, monthStart.AddDate(0, 1, 0)
		return p, nil
	}

	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > DaysInMonth(y, time.Month(m)) {
		return Period{}, utils.NewValidationError("invalid day %q", day)
	}
	p.Day = d
	p.Start = monthStart.AddDate(0, 0, d-1)
	p.End = p.Start.AddDate(0, 0, 1)
	return p, nil
}

type TopItem struct {
	MenuItemID uint    `json:"menuItemID"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Revenue    float64 `json:"revenue"`
}

type DailyRevenue struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type PeriodReport struct {
	Period        Period         `json:"period"`
	RestaurantIDs []uint         `json:"restaurantIDs"`
	TotalOrders   int            `json:"totalOrders"`
	TotalRevenue  float64        `json:"totalRevenue"`
	TotalGuests   int            `json:"totalGuests"`
	AvgRating     float64        `json:"avgRating"`
	TopItems      []TopItem      `json:"topItems"`
	DailyRevenue  []DailyRevenue `json:"dailyRevenue,omitempty"`
}

// BuildPeriodReport aggregates the completed orders and reservations that fall in p.
func BuildPeriodReport(p Period, restaurantIDs []uint, orders []models.Order, reservations []models.Reservation) *PeriodReport {
	report := &PeriodReport{Period: p, RestaurantIDs: restaurantIDs}

	completed := make([]models.Order, 0, len(orders))
	revenue := decimal.Zero
	for _, o := range orders {
		if o.Status != models.OrderCompleted {
			continue
		}
		completed = append(completed, o)
		revenue = revenue.Add(decimal.NewFromFloat(o.Total))
	}
	report.TotalOrders = len(completed)
	report.TotalRevenue, _ = revenue.Float64()

	ratings := make([]int, 0, len(reservations))
	for _, r := range reservations {
		report.TotalGuests += r.TotalPeople
		ratings = append(ratings, r.Rating)
	}
	report.AvgRating = AverageRating(ratings)
	report.TopItems = TopSellingItems(completed, topItemLimit)

	if p.IsMonth() {
		report.DailyRevenue = dailyRevenue(completed, p.Start.Location())
	}
	return report
}

// AverageRating is the mean of the positive ratings rounded to one decimal, 0 when nothing is rated.
func AverageRating(ratings []int) float64 {
	sum, n := 0, 0
	for _, r := range ratings {
		if r > 0 {
			sum += r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

// TopSellingItems ranks items by cumulative quantity. Ties keep first-seen order.
func TopSellingItems(orders []models.Order, limit int) []TopItem {
	index := map[string]int{}
	items := []TopItem{}
	revenue := []decimal.Decimal{}

	for _, o := range orders {
		for _, line := range o.Items {
			key := line.Name
			if line.MenuItemID != 0 {
				key = strconv.FormatUint(uint64(line.MenuItemID), 10)
			}
			i, ok := index[key]
			if !ok {
				i = len(items)
				index[key] = i
				items = append(items, TopItem{MenuItemID: line.MenuItemID, Name: line.Name})
				revenue = append(revenue, decimal.Zero)
			}
			items[i].Quantity += line.Quantity
			revenue[i] = revenue[i].Add(decimal.NewFromFloat(line.PriceAtBooking).Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}
	for i := range items {
		items[i].Revenue, _ = revenue[i].Float64()
	}

	sort.SliceStable(items, func(a, b int) bool { return items[a].Quantity > items[b].Quantity })
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// dailyRevenue lists only the dates that have at least one order, in date order.
// Orders are dated by check-in.
func dailyRevenue(orders []models.Order, loc *time.Location) []DailyRevenue {
	byDate := map[string]*DailyRevenue{}
	sums := map[string]decimal.Decimal{}
	for _, o := range orders {
		date := o.CheckIn.In(loc).Format(dateLayout)
		d, ok := byDate[date]
		if !ok {
			d = &DailyRevenue{Date: date}
			byDate[date] = d
		}
		d.Orders++
		sums[date] = sums[date].Add(decimal.NewFromFloat(o.Total))
	}

	out := make([]DailyRevenue, 0, len(byDate))
	for date, d := range byDate {
		d.Revenue, _ = sums[date].Float64()
		out = append(out, *d)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Date < out[b].Date })
	return out
}

// BuildSnapshot computes the daily report row for one restaurant.
func BuildSnapshot(restaurant *models.Restaurant, day time.Time, orders []models.Order, reservations []models.Reservation) models.RestaurantReport {
	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(decimal.NewFromFloat(o.Total))
	}
	users := map[uint]struct{}{}
	for _, r := range reservations {
		users[r.UserID] = struct{}{}
	}

	top, _ := json.Marshal(TopSellingItems(orders, topItemLimit))
	report := models.RestaurantReport{
		RestaurantID:     restaurant.ID,
		OwnerID:          restaurant.OwnerID,
		Date:             startOfDay(day),
		TotalOrders:      len(orders),
		TotalUsers:       len(users),
		ReservationCount: len(reservations),
		TopSellingItems:  datatypes.JSON(top),
	}
	report.TotalRevenue, _ = revenue.Float64()
	return report
}

type RollupRow struct {
	RestaurantID     *uint      `json:"restaurantID"`
	RestaurantName   string     `json:"restaurantName"`
	OwnerID          *uint      `json:"ownerID"`
	Date             *time.Time `json:"date"`
	TotalOrders      int        `json:"totalOrders"`
	TotalRevenue     float64    `json:"totalRevenue"`
	TotalUsers       int        `json:"totalUsers"`
	ReservationCount int        `json:"reservationCount"`
}

// BuildMonthlyRollup turns snapshots into rows and appends a TOTAL row summing every numeric field.
func BuildMonthlyRollup(reports []models.RestaurantReport) []RollupRow {
	rows := make([]RollupRow, 0, len(reports)+1)
	total := RollupRow{RestaurantName: totalRowName}
	revenue := decimal.Zero

	for i := range reports {
		r := &reports[i]
		row := RollupRow{
			RestaurantID:     &r.RestaurantID,
			OwnerID:          &r.OwnerID,
			Date:             &r.Date,
			TotalOrders:      r.TotalOrders,
			TotalRevenue:     r.TotalRevenue,
			TotalUsers:       r.TotalUsers,
			ReservationCount: r.ReservationCount,
		}
		if r.Restaurant != nil {
			row.RestaurantName = r.Restaurant.Name
		}
		rows = append(rows, row)

		total.TotalOrders += r.TotalOrders
		total.TotalUsers += r.TotalUsers
		total.ReservationCount += r.ReservationCount
		revenue = revenue.Add(decimal.NewFromFloat(r.TotalRevenue))
	}
	total.TotalRevenue, _ = revenue.Float64()
	return append(rows, total)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateKeys(start, end time.Time) []string {
	var keys []string
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format(dateLayout))
	}
	return keys
}
