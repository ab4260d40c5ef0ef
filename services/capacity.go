package services

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"time"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start time.Time, limitHours int) Window {
	return Window{Start: start, End: start.Add(time.Duration(limitHours) * time.Hour)}
}

// Overlaps reports whether two windows share at least one instant.
// Windows that only touch (one ends exactly when the other starts) do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Capacity is the restaurant configuration the booking check runs against.
type Capacity struct {
	OrderAvailable  int `json:"orderAvailable"`
	PeopleAvailable int `json:"peopleAvailable"`
	LimitTime       int `json:"limitTime"` // hours
}

func CapacityOf(r *models.Restaurant) Capacity {
	return Capacity{OrderAvailable: r.OrderAvailable, PeopleAvailable: r.PeopleAvailable, LimitTime: r.LimitTime}
}

// Occupancy is what the existing active orders take up during a requested window.
type Occupancy struct {
	Orders int `json:"orders"`
	People int `json:"people"`
}

// OccupancyDuring sums the active orders whose slot overlaps the requested window.
func OccupancyDuring(requested Window, active []models.Order, limitHours int) Occupancy {
	var occ Occupancy
	for i := range active {
		o := &active[i]
		if !models.IsActiveOrderStatus(o.Status) {
			continue
		}
		if requested.Overlaps(NewWindow(o.CheckIn, limitHours)) {
			occ.Orders++
			occ.People += o.TotalPeople
		}
	}
	return occ
}

// CheckCapacity decides whether a booking of people guests at checkIn fits next to the active orders.
// It returns a CapacityExceeded error when the restaurant is out of tables or seats for that window.
func CheckCapacity(capacity Capacity, checkIn time.Time, people int, active []models.Order) error {
	requested := NewWindow(checkIn, capacity.LimitTime)
	occ := OccupancyDuring(requested, active, capacity.LimitTime)

	if occ.Orders >= capacity.OrderAvailable {
		return utils.NewCapacityExceeded("no tables left between %s and %s",
			requested.Start.Format("15:04"), requested.End.Format("15:04"))
	}
	if occ.People+people > capacity.PeopleAvailable {
		return utils.NewCapacityExceeded("only %d seats left between %s and %s",
			max(capacity.PeopleAvailable-occ.People, 0), requested.Start.Format("15:04"), requested.End.Format("15:04"))
	}
	return nil
}
