package models

import (
	"testing"
	"time"
)

func TestRecalculateTotal(t *testing.T) {
	o := Order{Items: []OrderItem{
		{Quantity: 2, PriceAtBooking: 45000},
		{Quantity: 1, PriceAtBooking: 12500.5},
		{Quantity: 3, PriceAtBooking: 0.25},
	}}
	o.RecalculateTotal()

	want := 2*45000.0 + 12500.5 + 0.75
	if o.Total != want {
		t.Fatalf("expected total %v, got %v", want, o.Total)
	}
}

func TestBeforeSaveRecomputesTotal(t *testing.T) {
	o := Order{Total: 999, Items: []OrderItem{{Quantity: 4, PriceAtBooking: 25}}}
	if err := o.BeforeSave(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Total != 100 {
		t.Fatalf("expected total 100, got %v", o.Total)
	}

	// Without loaded items the stored total is left alone.
	o2 := Order{Total: 42}
	o2.BeforeSave(nil)
	if o2.Total != 42 {
		t.Fatalf("expected total untouched, got %v", o2.Total)
	}
}

func TestWindowEnd(t *testing.T) {
	checkIn := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	o := Order{CheckIn: checkIn}
	if got := o.WindowEnd(2); !got.Equal(checkIn.Add(2 * time.Hour)) {
		t.Fatalf("unexpected window end %v", got)
	}
}

func TestIsActiveOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		want := s == OrderPending || s == OrderConfirm
		if IsActiveOrderStatus(s) != want {
			t.Fatalf("status %s: expected active=%v", s, want)
		}
	}
}

func TestPromotionStatusAt(t *testing.T) {
	p := Promotion{
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC),
	}
	cases := map[time.Time]string{
		time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC): PromotionUpcoming,
		time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC): PromotionActive,
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC):  PromotionExpired,
	}
	for now, want := range cases {
		if got := p.StatusAt(now); got != want {
			t.Fatalf("at %v expected %s, got %s", now, want, got)
		}
	}
}

func TestApplyCapacityDefaults(t *testing.T) {
	r := Restaurant{PeopleAvailable: 8}
	r.ApplyCapacityDefaults()
	if r.OrderAvailable != DefaultOrderAvailable || r.PeopleAvailable != 8 || r.LimitTime != DefaultLimitTime {
		t.Fatalf("unexpected capacity %+v", r)
	}
}
