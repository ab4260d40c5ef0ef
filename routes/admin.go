package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"strings"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

// AdminListUsers - GET /api/admin/users?role=&q=&page=&per_page=
func AdminListUsers(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)

	var users []models.User
	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	role := strings.TrimSpace(ctx.URLParamDefault("role", ""))

	query := storage.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	query = query.Order("id").Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&users).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminChangeUserRole - PATCH /api/admin/users/{id}/role (super admin only)
func AdminChangeUserRole(ctx iris.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var body struct {
		Role string `json:"role" validate:"required"`
	}
	if !readJSON(ctx, &body) {
		return
	}
	if !slices.Contains(models.Roles, body.Role) {
		utils.WriteError(ctx, utils.NewValidationError("role must be one of %v", models.Roles))
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}

	before := user
	user.Role = body.Role
	if body.Role != models.RoleManager {
		user.RestaurantID = nil
	}
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}

	utils.Audit(ctx, "user.role_update", "user", user.ID, before, user)
	utils.JSONData(ctx, user)
}

// AssignManager - PATCH /api/restaurant/{id}/manager
// Owners (or admins) make a user the manager of one of their restaurants.
func AssignManager(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok || !authorizeRestaurant(ctx, restaurantID, false) {
		return
	}
	var body struct {
		Email string `json:"email" validate:"required,email"`
	}
	if !readJSON(ctx, &body) {
		return
	}

	var user models.User
	if err := storage.DB.Where("email = ?", strings.ToLower(body.Email)).First(&user).Error; err != nil {
		utils.WriteError(ctx, utils.NewNotFoundError("user"))
		return
	}
	if user.Role != models.RoleUser && user.Role != models.RoleManager {
		utils.WriteError(ctx, utils.NewValidationError("a %s cannot become a manager", user.Role))
		return
	}

	before := user
	user.Role = models.RoleManager
	user.RestaurantID = &restaurantID
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "restaurant.assign_manager", "user", user.ID, before, user)
	utils.JSONData(ctx, user)
}

// AdminAuditLogs - GET /api/admin/audit?resourceType=&actor=&page=&per_page=
func AdminAuditLogs(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)
	query := storage.DB.Model(&models.AuditLog{})
	if resourceType := ctx.URLParam("resourceType"); resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}
	if actor := ctx.URLParamIntDefault("actor", 0); actor > 0 {
		query = query.Where("actor_user_id = ?", actor)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	var logs []models.AuditLog
	if err := query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&logs).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONPage(ctx, logs, page, perPage, total)
}
