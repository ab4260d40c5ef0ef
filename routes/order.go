package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/services"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"time"

	"github.com/kataras/golog"
	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type UpdateOrderItemsInput struct {
	Items []services.BookingItem `json:"items" validate:"required,dive"`
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required"`
}

type RateInput struct {
	Rating int `json:"rating" validate:"gte=0,lte=5"`
}

// CreateOrder - POST /api/restaurant/{id}/orders
// Walk-in orders are entered by staff on behalf of a guest, so they carry no user.
func CreateOrder(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req services.BookingRequest
	if !readJSON(ctx, &req) {
		return
	}
	req.RestaurantID = restaurantID

	auth := utils.GetAuthContext(ctx)
	if req.IsWalkIn {
		if !authorizeRestaurant(ctx, restaurantID, true) {
			return
		}
	} else {
		userID := auth.UserID
		req.UserID = &userID
	}
	if req.ReservationID != nil && !ownsReservation(ctx, *req.ReservationID, restaurantID) {
		return
	}

	result, err := bookingService().Book(ctx.Request().Context(), req)
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONCreated(ctx, result)
}

// ownsReservation checks the reservation exists at restaurantID and belongs to the caller
// (staff of the restaurant may attach any of its reservations).
func ownsReservation(ctx iris.Context, reservationID, restaurantID uint) bool {
	var reservation models.Reservation
	if err := storage.DB.First(&reservation, reservationID).Error; err != nil {
		utils.WriteError(ctx, utils.NewValidationError("reservation %d does not exist", reservationID))
		return false
	}
	if reservation.RestaurantID != restaurantID {
		utils.WriteError(ctx, utils.NewValidationError("reservation belongs to another restaurant"))
		return false
	}
	auth := utils.GetAuthContext(ctx)
	if reservation.UserID == auth.UserID {
		return true
	}
	return authorizeRestaurant(ctx, restaurantID, true)
}

// loadOrder fetches an order the caller is allowed to see: its guest or the restaurant's staff.
func loadOrder(ctx iris.Context, preload bool) (*models.Order, bool) {
	id, ok := paramID(ctx, "orderId")
	if !ok {
		return nil, false
	}
	query := storage.DB
	if preload {
		query = query.Preload("Items").Preload("Restaurant")
	}
	var order models.Order
	if err := query.First(&order, id).Error; err != nil {
		utils.WriteError(ctx, err)
		return nil, false
	}

	auth := utils.GetAuthContext(ctx)
	if isGuestOf(auth, &order) {
		return &order, true
	}
	if !authorizeRestaurant(ctx, order.RestaurantID, true) {
		return nil, false
	}
	return &order, true
}

func isGuestOf(auth *utils.AuthContext, order *models.Order) bool {
	return auth != nil && order.UserID != nil && *order.UserID == auth.UserID
}

func GetOrder(ctx iris.Context) {
	order, ok := loadOrder(ctx, true)
	if !ok {
		return
	}
	utils.JSONData(ctx, order)
}

// ListMyOrders - GET /api/orders/me?status=&page=&per_page=
func ListMyOrders(ctx iris.Context) {
	auth := utils.GetAuthContext(ctx)
	listOrders(ctx, storage.DB.Where("user_id = ?", auth.UserID))
}

// ListRestaurantOrders - GET /api/restaurant/{id}/orders?status=&page=&per_page=
func ListRestaurantOrders(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok || !authorizeRestaurant(ctx, restaurantID, true) {
		return
	}
	listOrders(ctx, storage.DB.Where("restaurant_id = ?", restaurantID))
}

func listOrders(ctx iris.Context, query *gorm.DB) {
	page, perPage := utils.Pagination(ctx)
	if status := ctx.URLParam("status"); status != "" {
		if !slices.Contains(models.OrderStatuses, status) {
			utils.WriteError(ctx, utils.NewValidationError("status must be one of %v", models.OrderStatuses))
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Model(&models.Order{}).Count(&total).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	var orders []models.Order
	err := query.Preload("Items").
		Order("check_in DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&orders).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONPage(ctx, orders, page, perPage, total)
}

// TodayOrders groups the restaurant's orders checking in today by status.
func TodayOrders(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok || !authorizeRestaurant(ctx, restaurantID, true) {
		return
	}

	now := time.Now().In(reportLocation)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, reportLocation)
	var orders []models.Order
	err := storage.DB.Preload("Items").
		Where("restaurant_id = ? AND check_in >= ? AND check_in < ?", restaurantID, start, start.AddDate(0, 0, 1)).
		Order("check_in").
		Find(&orders).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	byStatus := make(map[string][]models.Order, len(models.OrderStatuses))
	for _, status := range models.OrderStatuses {
		byStatus[status] = []models.Order{}
	}
	for _, o := range orders {
		byStatus[o.Status] = append(byStatus[o.Status], o)
	}
	utils.JSONData(ctx, byStatus)
}

// UpdateOrderItems replaces the line items of an order that has not been served yet.
func UpdateOrderItems(ctx iris.Context) {
	order, ok := loadOrder(ctx, true)
	if !ok {
		return
	}
	var input UpdateOrderItemsInput
	if !readJSON(ctx, &input) {
		return
	}
	if !models.IsActiveOrderStatus(order.Status) {
		utils.WriteError(ctx, utils.NewValidationError("items of a %s order cannot change", order.Status))
		return
	}

	ids := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.MenuItemID)
	}
	var menu []models.MenuItem
	if err := storage.DB.Where("restaurant_id = ? AND id IN ?", order.RestaurantID, ids).Find(&menu).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	lines, err := services.PriceItems(input.Items, menu)
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	before := *order
	err = storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		order.Items = lines
		order.RecalculateTotal()
		if err := tx.Create(&order.Items).Error; err != nil {
			return err
		}
		return tx.Model(order).UpdateColumn("total", order.Total).Error
	})
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "order.items", "order", order.ID, before, order)
	utils.JSONData(ctx, order)
}

// UpdateOrderStatus lets staff move an order through its lifecycle. Guests may only cancel.
func UpdateOrderStatus(ctx iris.Context) {
	order, ok := loadOrder(ctx, false)
	if !ok {
		return
	}
	var input UpdateOrderStatusInput
	if !readJSON(ctx, &input) {
		return
	}
	if !slices.Contains(models.OrderStatuses, input.Status) {
		utils.WriteError(ctx, utils.NewValidationError("status must be one of %v", models.OrderStatuses))
		return
	}
	auth := utils.GetAuthContext(ctx)
	// loadOrder already let non-guests through only as restaurant staff.
	staff := auth.IsAdmin() || !isGuestOf(auth, order)
	if !staff && input.Status != models.OrderCancelled {
		utils.WriteError(ctx, utils.NewAuthorizationError("guests can only cancel an order"))
		return
	}
	if !staff && !models.IsActiveOrderStatus(order.Status) {
		utils.WriteError(ctx, utils.NewValidationError("a %s order cannot be cancelled", order.Status))
		return
	}

	previous := order.Status
	rctx := ctx.Request().Context()
	if err := bookingService().ChangeStatus(rctx, order, input.Status); err != nil {
		utils.WriteError(ctx, err)
		return
	}

	var restaurant models.Restaurant
	if err := storage.DB.Select("id, name").First(&restaurant, order.RestaurantID).Error; err != nil {
		golog.Warnf("⚠️  order %d: restaurant %d not loaded for the status notification: %v", order.ID, order.RestaurantID, err)
	}
	notificationService().NotifyOrderStatus(rctx, order, restaurant.Name)
	if events := eventPublisher(); events != nil {
		err := events.Publish(rctx, "order.status_changed", map[string]interface{}{
			"orderID":      order.ID,
			"restaurantID": order.RestaurantID,
			"from":         previous,
			"to":           order.Status,
		})
		if err != nil {
			golog.Warnf("⚠️  order %d: status event not published: %v", order.ID, err)
		}
	}

	utils.Audit(ctx, "order.status", "order", order.ID, iris.Map{"status": previous}, iris.Map{"status": order.Status})
	utils.JSONData(ctx, order)
}

// RateOrder stores the guest's rating and refreshes the restaurant rating.
func RateOrder(ctx iris.Context) {
	order, ok := loadOrder(ctx, false)
	if !ok {
		return
	}
	var input RateInput
	if !readJSON(ctx, &input) {
		return
	}
	if !isGuestOf(utils.GetAuthContext(ctx), order) {
		utils.WriteError(ctx, utils.NewAuthorizationError("only the guest can rate an order"))
		return
	}
	if order.Status != models.OrderCompleted {
		utils.WriteError(ctx, utils.NewValidationError("only completed orders can be rated"))
		return
	}

	var rating float64
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).UpdateColumn("rating", input.Rating).Error; err != nil {
			return err
		}
		var ratings []int
		if err := tx.Model(&models.Order{}).Where("restaurant_id = ? AND rating > 0", order.RestaurantID).Pluck("rating", &ratings).Error; err != nil {
			return err
		}
		rating = services.AverageRating(ratings)
		return tx.Model(&models.Restaurant{}).Where("id = ?", order.RestaurantID).UpdateColumn("rating", rating).Error
	})
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	order.Rating = input.Rating
	utils.JSONData(ctx, iris.Map{"order": order, "restaurantRating": rating})
}

// DeleteOrder is an admin-only hard delete.
func DeleteOrder(ctx iris.Context) {
	id, ok := paramID(ctx, "orderId")
	if !ok {
		return
	}
	var order models.Order
	if err := storage.DB.Preload("Items").First(&order, id).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	if err := storage.DB.Unscoped().Select("Items").Delete(&order).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "order.delete", "order", order.ID, order, nil)
	ctx.StatusCode(iris.StatusNoContent)
}
