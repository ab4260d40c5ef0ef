package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

type MenuItemInput struct {
	Name        string  `json:"name" validate:"required,max=256"`
	Category    string  `json:"category" validate:"required"`
	Type        string  `json:"type"`
	Description string  `json:"description" validate:"max=2000"`
	Unit        string  `json:"unit"`
	Price       float64 `json:"price" validate:"gte=0"`
	IsAvailable *bool   `json:"isAvailable"`
	Image       string  `json:"image"`
}

func (in *MenuItemInput) apply(m *models.MenuItem) error {
	if !slices.Contains(models.MenuCategories, in.Category) {
		return utils.NewValidationError("category must be one of %v", models.MenuCategories)
	}
	m.Name = in.Name
	m.Category = in.Category
	m.Type = in.Type
	m.Description = in.Description
	m.Unit = in.Unit
	m.Price = in.Price
	m.Image = in.Image
	if in.IsAvailable != nil {
		m.IsAvailable = *in.IsAvailable
	}
	return nil
}

// ListMenu - GET /api/restaurant/{id}/menu?category=
func ListMenu(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	query := storage.DB.Where("restaurant_id = ?", restaurantID)
	if category := ctx.URLParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.MenuItem
	if err := query.Order("category, name").Find(&items).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, items)
}

// BestSellers returns the menu items ordered the most.
func BestSellers(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	limit := ctx.URLParamIntDefault("limit", 5)
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	var items []models.MenuItem
	err := storage.DB.
		Where("restaurant_id = ? AND sold_count > 0", restaurantID).
		Order("sold_count DESC, id").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, items)
}

func CreateMenuItem(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok || !authorizeRestaurant(ctx, restaurantID, true) {
		return
	}
	var input MenuItemInput
	if !readJSON(ctx, &input) {
		return
	}

	item := models.MenuItem{RestaurantID: restaurantID, IsAvailable: true}
	if err := input.apply(&item); err != nil {
		utils.WriteError(ctx, err)
		return
	}
	if err := storage.DB.Create(&item).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "menu.create", "menu_item", item.ID, nil, item)
	utils.JSONCreated(ctx, item)
}

// loadMenuItem fetches the item and checks the caller may manage its restaurant.
func loadMenuItem(ctx iris.Context) (*models.MenuItem, bool) {
	id, ok := paramID(ctx, "itemId")
	if !ok {
		return nil, false
	}
	var item models.MenuItem
	if err := storage.DB.First(&item, id).Error; err != nil {
		utils.WriteError(ctx, err)
		return nil, false
	}
	if !authorizeRestaurant(ctx, item.RestaurantID, true) {
		return nil, false
	}
	return &item, true
}

func UpdateMenuItem(ctx iris.Context) {
	item, ok := loadMenuItem(ctx)
	if !ok {
		return
	}
	var input MenuItemInput
	if !readJSON(ctx, &input) {
		return
	}

	before := *item
	if err := input.apply(item); err != nil {
		utils.WriteError(ctx, err)
		return
	}
	if err := storage.DB.Save(item).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "menu.update", "menu_item", item.ID, before, item)
	utils.JSONData(ctx, item)
}

func DeleteMenuItem(ctx iris.Context) {
	item, ok := loadMenuItem(ctx)
	if !ok {
		return
	}
	if err := storage.DB.Delete(item).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "menu.delete", "menu_item", item.ID, item, nil)
	ctx.StatusCode(iris.StatusNoContent)
}
