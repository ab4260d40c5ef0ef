package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCompleted = "COMPLETED"
	ReservationCancelled = "CANCELLED"
)

var ReservationStatuses = []string{ReservationPending, ReservationConfirmed, ReservationCompleted, ReservationCancelled}

// Reservation is a table booking, independent of what gets ordered.
type Reservation struct {
	gorm.Model
	UserID       uint        `json:"userID" gorm:"not null;index"`
	User         *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RestaurantID uint        `json:"restaurantID" gorm:"not null;index"`
	Restaurant   *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	Name         string      `json:"name"`
	PhoneNumber  string      `json:"phoneNumber"`
	Email        string      `json:"email"`
	CheckIn      time.Time   `json:"checkIn" gorm:"not null;index"`
	TotalPeople  int         `json:"totalPeople" gorm:"not null"`
	Status       string      `json:"status" gorm:"type:varchar(16);default:PENDING;index"`
	Rating       int         `json:"rating" gorm:"default:0;check:rating >= 0 AND rating <= 5"`
	Note         string      `json:"note"`
	ReminderSent bool        `json:"reminderSent" gorm:"default:false"`

	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:ReservationID"`
}

// Rateable reports whether the guest may rate the visit. Only a completed visit can be rated.
func (r *Reservation) Rateable() bool {
	return r.Status == ReservationCompleted
}
