package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"time"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type ReservationInput struct {
	Name        string    `json:"name" validate:"required,max=256"`
	PhoneNumber string    `json:"phoneNumber" validate:"required"`
	Email       string    `json:"email" validate:"omitempty,email"`
	CheckIn     time.Time `json:"checkIn" validate:"required"`
	TotalPeople int       `json:"totalPeople" validate:"required,min=1"`
	Note        string    `json:"note" validate:"max=1000"`
}

// CreateReservation - POST /api/restaurant/{id}/reservations
func CreateReservation(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var input ReservationInput
	if !readJSON(ctx, &input) {
		return
	}
	if !utils.ValidatePhoneNumber(input.PhoneNumber) {
		utils.WriteError(ctx, utils.NewValidationError("invalid phone number"))
		return
	}
	if input.CheckIn.Before(time.Now()) {
		utils.WriteError(ctx, utils.NewValidationError("checkIn must be in the future"))
		return
	}

	restaurant, ok := loadRestaurant(ctx, restaurantID)
	if !ok {
		return
	}
	if input.TotalPeople > restaurant.PeopleAvailable {
		utils.WriteError(ctx, utils.NewCapacityExceeded("the restaurant seats at most %d guests", restaurant.PeopleAvailable))
		return
	}

	auth := utils.GetAuthContext(ctx)
	reservation := models.Reservation{
		UserID:       auth.UserID,
		RestaurantID: restaurantID,
		Name:         input.Name,
		PhoneNumber:  utils.NormalizePhoneNumber(input.PhoneNumber),
		Email:        input.Email,
		CheckIn:      input.CheckIn,
		TotalPeople:  input.TotalPeople,
		Note:         input.Note,
		Status:       models.ReservationPending,
	}
	if err := storage.DB.Create(&reservation).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	notificationService().NotifyReservationCreated(ctx.Request().Context(), &reservation, restaurant.OwnerID)
	utils.JSONCreated(ctx, reservation)
}

func loadReservation(ctx iris.Context) (*models.Reservation, bool) {
	id, ok := paramID(ctx, "reservationId")
	if !ok {
		return nil, false
	}
	var reservation models.Reservation
	if err := storage.DB.Preload("Orders.Items").First(&reservation, id).Error; err != nil {
		utils.WriteError(ctx, err)
		return nil, false
	}
	if auth := utils.GetAuthContext(ctx); auth != nil && auth.UserID == reservation.UserID {
		return &reservation, true
	}
	if !authorizeRestaurant(ctx, reservation.RestaurantID, true) {
		return nil, false
	}
	return &reservation, true
}

func GetReservation(ctx iris.Context) {
	reservation, ok := loadReservation(ctx)
	if !ok {
		return
	}
	utils.JSONData(ctx, reservation)
}

func ListMyReservations(ctx iris.Context) {
	auth := utils.GetAuthContext(ctx)
	listReservations(ctx, storage.DB.Where("user_id = ?", auth.UserID))
}

func ListRestaurantReservations(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok || !authorizeRestaurant(ctx, restaurantID, true) {
		return
	}
	listReservations(ctx, storage.DB.Where("restaurant_id = ?", restaurantID))
}

func listReservations(ctx iris.Context, query *gorm.DB) {
	page, perPage := utils.Pagination(ctx)
	if status := ctx.URLParam("status"); status != "" {
		if !slices.Contains(models.ReservationStatuses, status) {
			utils.WriteError(ctx, utils.NewValidationError("status must be one of %v", models.ReservationStatuses))
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Model(&models.Reservation{}).Count(&total).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	var reservations []models.Reservation
	err := query.Preload("Restaurant").
		Order("check_in DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&reservations).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONPage(ctx, reservations, page, perPage, total)
}

func UpdateReservationStatus(ctx iris.Context) {
	reservation, ok := loadReservation(ctx)
	if !ok {
		return
	}
	var input UpdateOrderStatusInput
	if !readJSON(ctx, &input) {
		return
	}
	if !slices.Contains(models.ReservationStatuses, input.Status) {
		utils.WriteError(ctx, utils.NewValidationError("status must be one of %v", models.ReservationStatuses))
		return
	}
	auth := utils.GetAuthContext(ctx)
	if auth.UserID == reservation.UserID && !auth.IsAdmin() && input.Status != models.ReservationCancelled {
		utils.WriteError(ctx, utils.NewAuthorizationError("guests can only cancel a reservation"))
		return
	}

	previous := reservation.Status
	if err := storage.DB.Model(reservation).Update("status", input.Status).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	reservation.Status = input.Status
	utils.Audit(ctx, "reservation.status", "reservation", reservation.ID, iris.Map{"status": previous}, iris.Map{"status": input.Status})
	utils.JSONData(ctx, reservation)
}

func RateReservation(ctx iris.Context) {
	reservation, ok := loadReservation(ctx)
	if !ok {
		return
	}
	var input RateInput
	if !readJSON(ctx, &input) {
		return
	}
	if utils.GetAuthContext(ctx).UserID != reservation.UserID {
		utils.WriteError(ctx, utils.NewAuthorizationError("only the guest can rate a reservation"))
		return
	}
	if !reservation.Rateable() {
		utils.WriteError(ctx, utils.NewValidationError("only completed reservations can be rated"))
		return
	}
	if err := storage.DB.Model(reservation).UpdateColumn("rating", input.Rating).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	reservation.Rating = input.Rating
	utils.JSONData(ctx, reservation)
}
