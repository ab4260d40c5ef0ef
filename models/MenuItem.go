package models

import "gorm.io/gorm"

var MenuCategories = []string{"main", "side", "dessert", "beverage"}

type MenuItem struct {
	gorm.Model
	RestaurantID uint    `json:"restaurantID" gorm:"not null;index"`
	Name         string  `json:"name" gorm:"not null"`
	Category     string  `json:"category" gorm:"type:varchar(16);index"` // main, side, dessert, beverage
	Type         string  `json:"type"`
	Description  string  `json:"description" gorm:"type:text"`
	Unit         string  `json:"unit"`
	Price        float64 `json:"price" gorm:"not null"`
	IsAvailable  bool    `json:"isAvailable" gorm:"default:true"`
	Image        string  `json:"image"`
	SoldCount    int     `json:"soldCount" gorm:"default:0"`
}
