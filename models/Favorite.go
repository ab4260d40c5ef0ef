package models

import (
	"time"
)

type FavoriteRestaurant struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	UserID       uint        `json:"userID" gorm:"not null;uniqueIndex:idx_favorite_user_restaurant"`
	RestaurantID uint        `json:"restaurantID" gorm:"not null;uniqueIndex:idx_favorite_user_restaurant"`
	Restaurant   *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type ViewLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"userID" gorm:"not null;index"`
	RestaurantID uint      `json:"restaurantID" gorm:"not null;index"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SearchLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userID" gorm:"not null;index"`
	Keyword   string    `json:"keyword" gorm:"size:200"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}
