package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/services"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"

	"github.com/kataras/iris/v12"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
	OrderID *uint  `json:"orderID"` // review of a specific visit
}

// CreateReview - POST /api/restaurant/{id}/reviews
func CreateReview(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var input CreateReviewRequest
	if !readJSON(ctx, &input) {
		return
	}
	if _, ok := loadRestaurant(ctx, restaurantID); !ok {
		return
	}

	auth := utils.GetAuthContext(ctx)
	if input.OrderID != nil {
		var order models.Order
		err := storage.DB.
			Where("id = ? AND restaurant_id = ? AND user_id = ?", *input.OrderID, restaurantID, auth.UserID).
			First(&order).Error
		if err != nil {
			utils.WriteError(ctx, utils.NewValidationError("order %d is not one of your visits here", *input.OrderID))
			return
		}
	}

	review := models.Review{
		UserID:       auth.UserID,
		RestaurantID: restaurantID,
		OrderID:      input.OrderID,
		Rating:       input.Rating,
		Comment:      input.Comment,
	}
	if err := storage.DB.Omit("User", "Restaurant").Create(&review).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	storage.DB.Select("id, first_name, last_name, avatar_url").First(&review.User, auth.UserID)
	utils.JSONCreated(ctx, review)
}

// ListRestaurantReviews returns the visible reviews, newest first.
func ListRestaurantReviews(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	page, perPage := utils.Pagination(ctx)
	query := storage.DB.Model(&models.Review{}).Where("restaurant_id = ? AND is_flagged = ?", restaurantID, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	var reviews []models.Review
	err := query.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&reviews).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONPage(ctx, reviews, page, perPage, total)
}

// ReviewAverage - GET /api/restaurant/{id}/reviews/average
func ReviewAverage(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var ratings []int
	err := storage.DB.Model(&models.Review{}).
		Where("restaurant_id = ? AND is_flagged = ?", restaurantID, false).
		Pluck("rating", &ratings).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, iris.Map{"avgRating": services.AverageRating(ratings), "count": len(ratings)})
}
