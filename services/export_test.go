package services

import (
	"booking-restaurant-server/models"
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestWriteRollupCSV(t *testing.T) {
	day := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	rows := BuildMonthlyRollup([]models.RestaurantReport{
		{RestaurantID: 4, OwnerID: 2, Date: day, TotalOrders: 3, TotalRevenue: 150000, TotalUsers: 2, ReservationCount: 1,
			Restaurant: &models.Restaurant{Name: "Phở, Bò"}},
	})

	var buf bytes.Buffer
	if err := WriteRollupCSV(&buf, rows, time.UTC); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if lines[1] != `4,"Phở, Bò",2,2024-05-03,3,150000.00,2,1` {
		t.Errorf("row = %q", lines[1])
	}
	if lines[2] != ",TOTAL,,,3,150000.00,2,1" {
		t.Errorf("total = %q", lines[2])
	}
}
