package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PromotionUpcoming = "upcoming"
	PromotionActive   = "active"
	PromotionExpired  = "expired"
)

type Promotion struct {
	gorm.Model
	RestaurantID    uint      `json:"restaurantID" gorm:"not null;index"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description" gorm:"type:text"`
	DiscountPercent float64   `json:"discountPercent" gorm:"check:discount_percent >= 0 AND discount_percent <= 100"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Status          string    `json:"status" gorm:"type:varchar(16);index"`
}

// StatusAt derives the promotion status from its active period.
func (p *Promotion) StatusAt(now time.Time) string {
	switch {
	case now.Before(p.StartDate):
		return PromotionUpcoming
	case now.After(p.EndDate):
		return PromotionExpired
	default:
		return PromotionActive
	}
}

func (p *Promotion) BeforeSave(tx *gorm.DB) error {
	p.Status = p.StatusAt(time.Now())
	return nil
}
