package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/services"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"strings"

	"github.com/kataras/golog"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm/clause"
)

// AddFavorite - POST /api/restaurant/{id}/favorite
func AddFavorite(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if _, ok := loadRestaurant(ctx, restaurantID); !ok {
		return
	}
	auth := utils.GetAuthContext(ctx)
	favorite := models.FavoriteRestaurant{UserID: auth.UserID, RestaurantID: restaurantID}
	if err := storage.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONCreated(ctx, iris.Map{"restaurantID": restaurantID, "favorite": true})
}

func RemoveFavorite(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	auth := utils.GetAuthContext(ctx)
	err := storage.DB.
		Where("user_id = ? AND restaurant_id = ?", auth.UserID, restaurantID).
		Delete(&models.FavoriteRestaurant{}).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

func ListFavorites(ctx iris.Context) {
	auth := utils.GetAuthContext(ctx)
	var favorites []models.FavoriteRestaurant
	err := storage.DB.Preload("Restaurant").
		Where("user_id = ?", auth.UserID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, favorites)
}

// RecordView - POST /api/restaurant/{id}/view
func RecordView(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	auth := utils.GetAuthContext(ctx)
	if err := storage.DB.Create(&models.ViewLog{UserID: auth.UserID, RestaurantID: restaurantID}).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	if err := storage.PushRecentlyViewed(ctx.Request().Context(), auth.UserID, restaurantID); err != nil {
		golog.Warnf("⚠️  recently viewed not updated for user %d: %v", auth.UserID, err)
	}
	ctx.StatusCode(iris.StatusNoContent)
}

type SearchLogInput struct {
	Keyword string `json:"keyword" validate:"required,max=200"`
}

// RecordSearch - POST /api/user/searches
func RecordSearch(ctx iris.Context) {
	var input SearchLogInput
	if !readJSON(ctx, &input) {
		return
	}
	auth := utils.GetAuthContext(ctx)
	entry := models.SearchLog{UserID: auth.UserID, Keyword: strings.TrimSpace(input.Keyword)}
	if err := storage.DB.Create(&entry).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONCreated(ctx, entry)
}

// RecentlyViewed lists the restaurants the caller looked at last, newest first.
func RecentlyViewed(ctx iris.Context) {
	auth := utils.GetAuthContext(ctx)
	ids, err := storage.RecentlyViewed(ctx.Request().Context(), auth.UserID)
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	if len(ids) == 0 {
		utils.JSONData(ctx, []models.Restaurant{})
		return
	}

	var restaurants []models.Restaurant
	if err := storage.DB.Where("id IN ?", ids).Find(&restaurants).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	byID := make(map[uint]models.Restaurant, len(restaurants))
	for _, r := range restaurants {
		byID[r.ID] = r
	}
	ordered := make([]models.Restaurant, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	utils.JSONData(ctx, ordered)
}

// Recommendations - GET /api/user/recommendations
func Recommendations(ctx iris.Context) {
	auth := utils.GetAuthContext(ctx)
	rctx := ctx.Request().Context()
	signals, err := services.LoadUserSignals(rctx, storage.DB, auth.UserID)
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	var restaurants []models.Restaurant
	if err := storage.DB.WithContext(rctx).Find(&restaurants).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, services.Recommend(restaurants, signals))
}
