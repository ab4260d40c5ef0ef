package services

import "gorm.io/gorm"

func modelID(id uint) gorm.Model {
	return gorm.Model{ID: id}
}
