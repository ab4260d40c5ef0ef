package services

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var rollupCSVHeader = []string{"restaurant_id", "restaurant", "owner_id", "date", "total_orders", "total_revenue", "total_users", "reservation_count"}

// WriteRollupCSV writes the monthly rollup, TOTAL row included, as CSV with dates in loc.
func WriteRollupCSV(w io.Writer, rows []RollupRow, loc *time.Location) error {
	out := csv.NewWriter(w)
	if err := out.Write(rollupCSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			optionalID(r.RestaurantID),
			r.RestaurantName,
			optionalID(r.OwnerID),
			"",
			strconv.Itoa(r.TotalOrders),
			strconv.FormatFloat(r.TotalRevenue, 'f', 2, 64),
			strconv.Itoa(r.TotalUsers),
			strconv.Itoa(r.ReservationCount),
		}
		if r.Date != nil {
			record[3] = r.Date.In(loc).Format(dateLayout)
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

func optionalID(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}
