package models

import "testing"

func TestReservationRateable(t *testing.T) {
	for _, status := range ReservationStatuses {
		r := Reservation{Status: status}
		if got, want := r.Rateable(), status == ReservationCompleted; got != want {
			t.Errorf("%s: Rateable() = %v", status, got)
		}
	}
}
