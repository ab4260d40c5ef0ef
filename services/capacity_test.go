package services

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 10, hour, minute, 0, 0, time.UTC)
}

func pendingAt(hour, people int) models.Order {
	return models.Order{CheckIn: at(hour, 0), TotalPeople: people, Status: models.OrderPending}
}

func TestWindowOverlapBoundaries(t *testing.T) {
	cases := []struct {
		name string
		a, b Window
		want bool
	}{
		{"abutting", Window{at(10, 0), at(12, 0)}, Window{at(12, 0), at(14, 0)}, false},
		{"partial", Window{at(10, 0), at(12, 0)}, Window{at(11, 0), at(13, 0)}, true},
		{"contained", Window{at(10, 0), at(14, 0)}, Window{at(11, 0), at(12, 0)}, true},
		{"identical", Window{at(10, 0), at(12, 0)}, Window{at(10, 0), at(12, 0)}, true},
		{"disjoint", Window{at(8, 0), at(9, 0)}, Window{at(10, 0), at(11, 0)}, false},
		{"one minute", Window{at(10, 0), at(12, 0)}, Window{at(11, 59), at(13, 59)}, true},
	}
	for _, tc := range cases {
		if got := tc.a.Overlaps(tc.b); got != tc.want {
			t.Errorf("%s: a.Overlaps(b) = %v, want %v", tc.name, got, tc.want)
		}
		if got := tc.b.Overlaps(tc.a); got != tc.want {
			t.Errorf("%s: overlap is not symmetric", tc.name)
		}
	}
}

func TestWindowOverlapMatchesIntervalDefinition(t *testing.T) {
	base := at(0, 0)
	for a := 0; a < 8; a++ {
		for b := a + 1; b <= 8; b++ {
			for c := 0; c < 8; c++ {
				for d := c + 1; d <= 8; d++ {
					w1 := Window{base.Add(time.Duration(a) * time.Hour), base.Add(time.Duration(b) * time.Hour)}
					w2 := Window{base.Add(time.Duration(c) * time.Hour), base.Add(time.Duration(d) * time.Hour)}
					want := a < d && c < b
					if w1.Overlaps(w2) != want || w2.Overlaps(w1) != want {
						t.Fatalf("[%d,%d) vs [%d,%d): want %v", a, b, c, d, want)
					}
				}
			}
		}
	}
}

func TestCheckCapacityScenario(t *testing.T) {
	capacity := Capacity{OrderAvailable: 2, PeopleAvailable: 50, LimitTime: 2}
	active := []models.Order{pendingAt(10, 2), pendingAt(10, 2)}

	err := CheckCapacity(capacity, at(11, 0), 2, active)
	if !utils.IsKind(err, utils.KindCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded at 11:00, got %v", err)
	}

	if err := CheckCapacity(capacity, at(12, 0), 2, active); err != nil {
		t.Fatalf("expected 12:00 to be accepted, got %v", err)
	}
}

func TestCheckCapacityPeopleLimit(t *testing.T) {
	capacity := Capacity{OrderAvailable: 10, PeopleAvailable: 10, LimitTime: 2}
	active := []models.Order{pendingAt(18, 4), pendingAt(19, 4)}

	if err := CheckCapacity(capacity, at(19, 0), 2, active); err != nil {
		t.Fatalf("exactly filling the room should be accepted, got %v", err)
	}
	if err := CheckCapacity(capacity, at(19, 0), 3, active); !utils.IsKind(err, utils.KindCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded over the people limit, got %v", err)
	}
}

func TestCheckCapacityIgnoresInactiveOrders(t *testing.T) {
	capacity := Capacity{OrderAvailable: 1, PeopleAvailable: 4, LimitTime: 2}
	active := []models.Order{
		{CheckIn: at(10, 0), TotalPeople: 4, Status: models.OrderCancelled},
		{CheckIn: at(10, 0), TotalPeople: 4, Status: models.OrderCompleted},
		{CheckIn: at(10, 0), TotalPeople: 4, Status: models.OrderOnHold},
	}
	if err := CheckCapacity(capacity, at(10, 0), 4, active); err != nil {
		t.Fatalf("terminal and on-hold orders must not take capacity, got %v", err)
	}
}

func TestCheckCapacityMonotonic(t *testing.T) {
	capacity := Capacity{OrderAvailable: 3, PeopleAvailable: 100, LimitTime: 2}
	var active []models.Order
	rejected := false
	for i := 0; i < 6; i++ {
		err := CheckCapacity(capacity, at(11, 0), 1, active)
		if rejected && err == nil {
			t.Fatalf("request accepted again after %d overlapping orders", len(active))
		}
		if err != nil {
			rejected = true
		}
		active = append(active, pendingAt(10, 1))
	}
	if !rejected {
		t.Fatal("expected rejection once orderAvailable is reached")
	}

	// Removing overlapping orders keeps an accepted request accepted.
	active = []models.Order{pendingAt(10, 1), pendingAt(11, 1)}
	for len(active) > 0 {
		if err := CheckCapacity(capacity, at(11, 0), 1, active); err != nil {
			t.Fatalf("expected acceptance with %d overlapping orders, got %v", len(active), err)
		}
		active = active[1:]
	}
}

func TestOccupancyDuring(t *testing.T) {
	active := []models.Order{pendingAt(9, 3), pendingAt(10, 2), pendingAt(12, 5)}
	occ := OccupancyDuring(NewWindow(at(11, 0), 1), active, 2)
	if occ.Orders != 1 || occ.People != 2 {
		t.Fatalf("unexpected occupancy %+v", occ)
	}
}
