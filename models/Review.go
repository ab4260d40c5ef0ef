package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	UserID       uint       `json:"userID" gorm:"not null;index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	RestaurantID uint       `json:"restaurantID" gorm:"not null;index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	OrderID      *uint      `json:"orderID" gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"` // review of a specific visit
	User         User       `json:"user" gorm:"foreignKey:UserID"`
	Restaurant   Restaurant `json:"-" gorm:"foreignKey:RestaurantID"`
	Comment      string     `json:"comment" gorm:"type:text"`
	Rating       int        `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	IsFlagged    bool       `json:"isFlagged" gorm:"default:false"`
}
