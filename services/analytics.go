package services

import (
	"booking-restaurant-server/models"
	"sort"
	"time"
)

type DashboardSummary struct {
	TotalOrders       int64   `json:"totalOrders"`
	TotalUsers        int64   `json:"totalUsers"`
	TotalRevenueToday float64 `json:"totalRevenueToday"`
	TotalRevenueMonth float64 `json:"totalRevenueMonth"`
	TotalPeople       int64   `json:"totalPeople"`
}

type PrepItem struct {
	Date          string `json:"date"`
	MenuItemID    uint   `json:"itemID"`
	Name          string `json:"name"`
	Unit          string `json:"unit"`
	TotalQuantity int    `json:"totalQuantity"`
}

// BuildPrepList groups the ordered quantities by check-in date and menu item, sorted by date then name.
func BuildPrepList(orders []models.Order, loc *time.Location) []PrepItem {
	type key struct {
		date string
		item uint
		name string
	}
	byKey := map[key]*PrepItem{}
	for _, o := range orders {
		date := o.CheckIn.In(loc).Format(dateLayout)
		for _, line := range o.Items {
			k := key{date: date, item: line.MenuItemID}
			if line.MenuItemID == 0 {
				k.name = line.Name
			}
			p, ok := byKey[k]
			if !ok {
				p = &PrepItem{Date: date, MenuItemID: line.MenuItemID, Name: line.Name, Unit: line.Unit}
				byKey[k] = p
			}
			p.TotalQuantity += line.Quantity
		}
	}

	out := make([]PrepItem, 0, len(byKey))
	for _, p := range byKey {
		out = append(out, *p)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Date != out[b].Date {
			return out[a].Date < out[b].Date
		}
		return out[a].Name < out[b].Name
	})
	return out
}

type DateStat struct {
	Date        string `json:"date"`
	TotalOrders int    `json:"totalOrders"`
}

type MonthlyReservations struct {
	Reservations []models.Reservation `json:"reservations"`
	StatsByDate  []DateStat           `json:"statsByDate"`
	TotalOrders  int                  `json:"totalOrders"`
}

// BuildMonthlyReservations counts the orders attached to each reservation per check-in date.
func BuildMonthlyReservations(reservations []models.Reservation, loc *time.Location) *MonthlyReservations {
	byDate := map[string]int{}
	total := 0
	for _, r := range reservations {
		date := r.CheckIn.In(loc).Format(dateLayout)
		byDate[date] += len(r.Orders)
		total += len(r.Orders)
	}

	stats := make([]DateStat, 0, len(byDate))
	for date, n := range byDate {
		stats = append(stats, DateStat{Date: date, TotalOrders: n})
	}
	sort.Slice(stats, func(a, b int) bool { return stats[a].Date < stats[b].Date })

	if reservations == nil {
		reservations = []models.Reservation{}
	}
	return &MonthlyReservations{Reservations: reservations, StatsByDate: stats, TotalOrders: total}
}
