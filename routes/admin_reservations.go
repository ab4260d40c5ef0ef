package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"time"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// adminBookingFilters applies the shared status / restaurant / owner / date filters.
func adminBookingFilters(ctx iris.Context, q *gorm.DB, table string) *gorm.DB {
	if status := ctx.URLParamDefault("status", ""); status != "" {
		q = q.Where(table+".status = ?", status)
	}
	if restaurantID := ctx.URLParamDefault("restaurant_id", ""); restaurantID != "" {
		q = q.Where(table+".restaurant_id = ?", restaurantID)
	}
	if ownerID := ctx.URLParamDefault("owner_id", ""); ownerID != "" {
		q = q.Joins("JOIN restaurants ON restaurants.id = "+table+".restaurant_id").Where("restaurants.owner_id = ?", ownerID)
	}
	if userID := ctx.URLParamDefault("user_id", ""); userID != "" {
		q = q.Where(table+".user_id = ?", userID)
	}
	if dateFrom := ctx.URLParamDefault("date_from", ""); dateFrom != "" {
		if t, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			q = q.Where(table+".check_in >= ?", t)
		}
	}
	if dateTo := ctx.URLParamDefault("date_to", ""); dateTo != "" {
		if t, err := time.Parse(time.RFC3339, dateTo); err == nil {
			q = q.Where(table+".check_in < ?", t)
		}
	}
	return q
}

// GET /api/admin/reservations
func AdminListReservations(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)
	q := adminBookingFilters(ctx, storage.DB.Model(&models.Reservation{}), "reservations")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}

	var items []models.Reservation
	if err := q.Preload("Restaurant").Preload("User").Offset((page - 1) * perPage).Limit(perPage).Order("reservations.created_at DESC").Find(&items).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}

// GET /api/admin/orders
func AdminListOrders(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)
	q := adminBookingFilters(ctx, storage.DB.Model(&models.Order{}), "orders")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}

	var items []models.Order
	if err := q.Preload("Restaurant").Preload("Items").Offset((page - 1) * perPage).Limit(perPage).Order("orders.created_at DESC").Find(&items).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}

// POST /api/admin/reservations/{reservationId}/cancel { reason }
func AdminCancelReservation(ctx iris.Context) {
	id, ok := paramID(ctx, "reservationId")
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason" validate:"required,max=500"`
	}
	if !readJSON(ctx, &body) {
		return
	}
	var res models.Reservation
	if err := storage.DB.First(&res, id).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	before := res
	res.Status = models.ReservationCancelled
	res.Note = body.Reason
	if err := storage.DB.Model(&res).Updates(map[string]interface{}{"status": res.Status, "note": res.Note}).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "reservation.cancel", "reservation", res.ID, before, res)
	utils.JSONData(ctx, res)
}
