package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"time"

	"github.com/kataras/iris/v12"
)

// GET /api/admin/stats
func AdminStats(ctx iris.Context) {
	var restaurants, users, flaggedReviews int64
	storage.DB.Model(&models.Restaurant{}).Count(&restaurants)
	storage.DB.Model(&models.User{}).Count(&users)
	storage.DB.Model(&models.Review{}).Where("is_flagged = ?", true).Count(&flaggedReviews)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newOrders7, newOrders30, newRes7 int64
	storage.DB.Model(&models.Order{}).Where("created_at >= ?", since7).Count(&newOrders7)
	storage.DB.Model(&models.Order{}).Where("created_at >= ?", since30).Count(&newOrders30)
	storage.DB.Model(&models.Reservation{}).Where("created_at >= ?", since7).Count(&newRes7)

	var pending int64
	storage.DB.Model(&models.Order{}).Where("status = ?", models.OrderPending).Count(&pending)

	utils.JSONData(ctx, iris.Map{
		"restaurants":         restaurants,
		"users":               users,
		"flagged_reviews":     flaggedReviews,
		"pending_orders":      pending,
		"new_orders_7d":       newOrders7,
		"new_orders_30d":      newOrders30,
		"new_reservations_7d": newRes7,
	})
}

// GET /api/admin/activity
func AdminActivity(ctx iris.Context) {
	var logs []models.AuditLog
	if err := storage.DB.Order("created_at DESC").Limit(100).Find(&logs).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, logs)
}
