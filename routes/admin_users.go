package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"

	"github.com/kataras/iris/v12"
)

// GET /api/admin/users handled in admin.go (AdminListUsers)

// GET /api/admin/users/{id}: the user, the restaurants they own or manage, and their recent privileged actions
func AdminGetUser(ctx iris.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}

	restaurants := []models.Restaurant{}
	query := storage.DB.Where("owner_id = ?", id)
	if user.RestaurantID != nil {
		query = query.Or("id = ?", *user.RestaurantID)
	}
	if err := query.Find(&restaurants).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}

	var actions []models.AuditLog
	storage.DB.Where("actor_user_id = ?", id).Order("created_at DESC").Limit(50).Find(&actions)

	var orders int64
	storage.DB.Model(&models.Order{}).Where("user_id = ?", id).Count(&orders)

	utils.JSONData(ctx, iris.Map{
		"user":          user,
		"restaurants":   restaurants,
		"orderCount":    orders,
		"recentActions": actions,
	})
}
