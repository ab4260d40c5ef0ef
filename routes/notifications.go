package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"time"

	"github.com/kataras/iris/v12"
)

// ListNotifications - GET /api/notifications?unread=true&page=&per_page=
func ListNotifications(ctx iris.Context) {
	auth := utils.GetAuthContext(ctx)
	page, perPage := utils.Pagination(ctx)

	query := storage.DB.Model(&models.Notification{}).Where("user_id = ?", auth.UserID)
	if ctx.URLParamBoolDefault("unread", false) {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&notifications).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONPage(ctx, notifications, page, perPage, total)
}

// UnreadCount returns how many notifications the caller has not read yet.
func UnreadCount(ctx iris.Context) {
	auth := utils.GetAuthContext(ctx)
	var count int64
	err := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", auth.UserID, false).
		Count(&count).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, iris.Map{"unread": count})
}

// MarkNotificationRead - PATCH /api/notifications/{notificationId}/read
func MarkNotificationRead(ctx iris.Context) {
	id, ok := paramID(ctx, "notificationId")
	if !ok {
		return
	}
	auth := utils.GetAuthContext(ctx)

	var notification models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", id, auth.UserID).First(&notification).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	if !notification.IsRead {
		now := time.Now()
		notification.IsRead = true
		notification.ReadAt = &now
		if err := storage.DB.Model(&notification).Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
			utils.WriteError(ctx, err)
			return
		}
	}
	utils.JSONData(ctx, notification)
}

func MarkAllNotificationsRead(ctx iris.Context) {
	auth := utils.GetAuthContext(ctx)
	res := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", auth.UserID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	if res.Error != nil {
		utils.WriteError(ctx, res.Error)
		return
	}
	utils.JSONData(ctx, iris.Map{"updated": res.RowsAffected})
}
