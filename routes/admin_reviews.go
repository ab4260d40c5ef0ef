package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"strconv"

	"github.com/kataras/iris/v12"
)

// GET /api/admin/reviews?restaurant_id=&rating=&flagged=&page=&per_page=
func AdminListReviews(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)

	restaurantID := ctx.URLParamDefault("restaurant_id", "")
	rating := ctx.URLParamDefault("rating", "")

	q := storage.DB.Model(&models.Review{})
	if restaurantID != "" {
		q = q.Where("restaurant_id = ?", restaurantID)
	}
	if rating != "" {
		if r, err := strconv.Atoi(rating); err == nil {
			q = q.Where("rating = ?", r)
		}
	}
	if flagged := ctx.URLParam("flagged"); flagged != "" {
		q = q.Where("is_flagged = ?", flagged == "true")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}

	var items []models.Review
	if err := q.Preload("User").Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&items).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}

// PATCH /api/admin/reviews/{reviewId}/flag { flagged }
// Flagged reviews disappear from the public list and the average.
func AdminFlagReview(ctx iris.Context) {
	id, ok := paramID(ctx, "reviewId")
	if !ok {
		return
	}
	var body struct {
		Flagged bool `json:"flagged"`
	}
	if !readJSON(ctx, &body) {
		return
	}

	var rev models.Review
	if err := storage.DB.First(&rev, id).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	before := rev.IsFlagged
	if err := storage.DB.Model(&rev).Update("is_flagged", body.Flagged).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "review.flag", "review", rev.ID, iris.Map{"isFlagged": before}, iris.Map{"isFlagged": body.Flagged})
	utils.JSONData(ctx, iris.Map{"id": rev.ID, "isFlagged": body.Flagged})
}

// DELETE /api/admin/reviews/{reviewId}
func AdminDeleteReview(ctx iris.Context) {
	id, ok := paramID(ctx, "reviewId")
	if !ok {
		return
	}
	var rev models.Review
	if err := storage.DB.First(&rev, id).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	before := rev
	if err := storage.DB.Delete(&rev).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "review.delete", "review", before.ID, before, nil)
	ctx.StatusCode(iris.StatusNoContent)
}
