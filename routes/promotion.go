package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"time"

	"github.com/kataras/iris/v12"
)

type PromotionInput struct {
	Title           string    `json:"title" validate:"required,max=256"`
	Description     string    `json:"description" validate:"max=2000"`
	DiscountPercent float64   `json:"discountPercent" validate:"gte=0,lte=100"`
	StartDate       time.Time `json:"startDate" validate:"required"`
	EndDate         time.Time `json:"endDate" validate:"required"`
}

func (in *PromotionInput) apply(p *models.Promotion) error {
	if !in.EndDate.After(in.StartDate) {
		return utils.NewValidationError("endDate must be after startDate")
	}
	p.Title = in.Title
	p.Description = in.Description
	p.DiscountPercent = in.DiscountPercent
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	return nil
}

// ListPromotions - GET /api/restaurant/{id}/promotions?status=active
func ListPromotions(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var promotions []models.Promotion
	if err := storage.DB.Where("restaurant_id = ?", restaurantID).Order("start_date DESC").Find(&promotions).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}

	// The stored status is only refreshed on save, so derive it again here.
	now := time.Now()
	status := ctx.URLParam("status")
	out := make([]models.Promotion, 0, len(promotions))
	for _, p := range promotions {
		p.Status = p.StatusAt(now)
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	utils.JSONData(ctx, out)
}

func CreatePromotion(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok || !authorizeRestaurant(ctx, restaurantID, true) {
		return
	}
	var input PromotionInput
	if !readJSON(ctx, &input) {
		return
	}

	promotion := models.Promotion{RestaurantID: restaurantID}
	if err := input.apply(&promotion); err != nil {
		utils.WriteError(ctx, err)
		return
	}
	if err := storage.DB.Create(&promotion).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "promotion.create", "promotion", promotion.ID, nil, promotion)
	utils.JSONCreated(ctx, promotion)
}

func loadPromotion(ctx iris.Context) (*models.Promotion, bool) {
	id, ok := paramID(ctx, "promotionId")
	if !ok {
		return nil, false
	}
	var promotion models.Promotion
	if err := storage.DB.First(&promotion, id).Error; err != nil {
		utils.WriteError(ctx, err)
		return nil, false
	}
	if !authorizeRestaurant(ctx, promotion.RestaurantID, true) {
		return nil, false
	}
	return &promotion, true
}

func UpdatePromotion(ctx iris.Context) {
	promotion, ok := loadPromotion(ctx)
	if !ok {
		return
	}
	var input PromotionInput
	if !readJSON(ctx, &input) {
		return
	}
	before := *promotion
	if err := input.apply(promotion); err != nil {
		utils.WriteError(ctx, err)
		return
	}
	if err := storage.DB.Save(promotion).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "promotion.update", "promotion", promotion.ID, before, promotion)
	utils.JSONData(ctx, promotion)
}

func DeletePromotion(ctx iris.Context) {
	promotion, ok := loadPromotion(ctx)
	if !ok {
		return
	}
	if err := storage.DB.Delete(promotion).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "promotion.delete", "promotion", promotion.ID, promotion, nil)
	ctx.StatusCode(iris.StatusNoContent)
}
