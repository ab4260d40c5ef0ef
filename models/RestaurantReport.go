package models

import (
	"time"

	"gorm.io/datatypes"
)

// RestaurantReport is the persisted daily snapshot for one restaurant.
// (restaurant_id, date) is unique; the snapshot job replaces rows, it never adds to them.
type RestaurantReport struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	RestaurantID     uint           `json:"restaurantID" gorm:"not null;uniqueIndex:idx_report_restaurant_date"`
	Restaurant       *Restaurant    `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	OwnerID          uint           `json:"ownerID" gorm:"index"`
	Date             time.Time      `json:"date" gorm:"not null;uniqueIndex:idx_report_restaurant_date"`
	TotalOrders      int            `json:"totalOrders"`
	TotalRevenue     float64        `json:"totalRevenue"`
	TotalUsers       int            `json:"totalUsers"`
	ReservationCount int            `json:"reservationCount"`
	TopSellingItems  datatypes.JSON `json:"topSellingItems" gorm:"type:jsonb"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}
