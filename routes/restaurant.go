package routes

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/services"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"encoding/json"
	"strings"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
)

type RestaurantInput struct {
	Name            string   `json:"name" validate:"required,max=256"`
	Province        string   `json:"province" validate:"required"`
	ProvinceCode    string   `json:"provinceCode"`
	District        string   `json:"district"`
	DistrictCode    string   `json:"districtCode"`
	AddressLine     string   `json:"addressLine"`
	PriceFrom       float64  `json:"priceFrom" validate:"gte=0"`
	PriceTo         float64  `json:"priceTo" validate:"gte=0"`
	Types           []string `json:"types"`
	MainImage       string   `json:"mainImage"`
	Gallery         []string `json:"gallery"`
	OpenTime        string   `json:"openTime"`
	CloseTime       string   `json:"closeTime"`
	Description     string   `json:"description"`
	Lat             float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lng             float64  `json:"lng" validate:"gte=-180,lte=180"`
	BankAcqID       string   `json:"bankAcqID"`
	BankAccountNo   string   `json:"bankAccountNo"`
	BankAccountName string   `json:"bankAccountName"`
}

type CapacityInput struct {
	OrderAvailable  int `json:"orderAvailable" validate:"required,min=1"`
	PeopleAvailable int `json:"peopleAvailable" validate:"required,min=1"`
	LimitTime       int `json:"limitTime" validate:"required,min=1,max=24"`
}

func (in *RestaurantInput) apply(r *models.Restaurant) {
	r.Name = in.Name
	r.Province = in.Province
	r.ProvinceCode = in.ProvinceCode
	r.District = in.District
	r.DistrictCode = in.DistrictCode
	r.AddressLine = in.AddressLine
	r.PriceFrom = in.PriceFrom
	r.PriceTo = in.PriceTo
	r.Types = jsonList(in.Types)
	r.MainImage = in.MainImage
	r.Gallery = jsonList(in.Gallery)
	r.OpenTime = in.OpenTime
	r.CloseTime = in.CloseTime
	r.Description = in.Description
	r.Lat = in.Lat
	r.Lng = in.Lng
	r.BankAcqID = in.BankAcqID
	r.BankAccountNo = in.BankAccountNo
	r.BankAccountName = in.BankAccountName
}

func jsonList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return datatypes.JSON(b)
}

func (in *RestaurantInput) validate() error {
	if in.PriceTo > 0 && in.PriceTo < in.PriceFrom {
		return utils.NewValidationError("priceTo must not be below priceFrom")
	}
	return nil
}

func CreateRestaurant(ctx iris.Context) {
	var input RestaurantInput
	if !readJSON(ctx, &input) {
		return
	}
	if err := input.validate(); err != nil {
		utils.WriteError(ctx, err)
		return
	}

	auth := utils.GetAuthContext(ctx)
	restaurant := models.Restaurant{OwnerID: auth.UserID}
	input.apply(&restaurant)
	restaurant.ApplyCapacityDefaults()

	if err := storage.DB.Create(&restaurant).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "restaurant.create", "restaurant", restaurant.ID, nil, restaurant)
	utils.JSONCreated(ctx, restaurant)
}

func GetRestaurant(ctx iris.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var restaurant models.Restaurant
	err := storage.DB.
		Preload("MenuItems", "is_available = ?", true).
		Preload("Promotions").
		First(&restaurant, id).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	utils.JSONData(ctx, restaurant)
}

// ListRestaurants - GET /api/restaurant?province=&type=&minPrice=&maxPrice=&q=&page=&per_page=
func ListRestaurants(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)
	query := storage.DB.Model(&models.Restaurant{})

	if province := strings.TrimSpace(ctx.URLParam("province")); province != "" {
		query = query.Where("province = ? OR province_code = ?", province, province)
	}
	if district := strings.TrimSpace(ctx.URLParam("district")); district != "" {
		query = query.Where("district = ? OR district_code = ?", district, district)
	}
	if typ := strings.TrimSpace(ctx.URLParam("type")); typ != "" {
		query = query.Where("types @> ?", string(jsonList([]string{typ})))
	}
	if minPrice := ctx.URLParamFloat64Default("minPrice", 0); minPrice > 0 {
		query = query.Where("price_to >= ?", minPrice)
	}
	if maxPrice := ctx.URLParamFloat64Default("maxPrice", 0); maxPrice > 0 {
		query = query.Where("price_from <= ?", maxPrice)
	}
	if q := strings.TrimSpace(ctx.URLParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(name) LIKE ?", like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	var restaurants []models.Restaurant
	err := query.Order("rating DESC, id").Offset((page - 1) * perPage).Limit(perPage).Find(&restaurants).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONPage(ctx, restaurants, page, perPage, total)
}

// ListOwnerRestaurants returns the caller's restaurants (owners) or assigned restaurant (managers).
func ListOwnerRestaurants(ctx iris.Context) {
	auth := utils.GetAuthContext(ctx)
	var restaurants []models.Restaurant
	query := storage.DB.Order("id")
	if auth.Role == models.RoleManager {
		query = query.Where("id = ?", *auth.RestaurantID)
	} else {
		query = query.Where("owner_id = ?", auth.UserID)
	}
	if err := query.Find(&restaurants).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, restaurants)
}

func UpdateRestaurant(ctx iris.Context) {
	id, ok := paramID(ctx, "id")
	if !ok || !authorizeRestaurant(ctx, id, false) {
		return
	}
	var input RestaurantInput
	if !readJSON(ctx, &input) {
		return
	}
	if err := input.validate(); err != nil {
		utils.WriteError(ctx, err)
		return
	}

	restaurant, ok := loadRestaurant(ctx, id)
	if !ok {
		return
	}
	before := *restaurant
	input.apply(restaurant)
	if err := storage.DB.Save(restaurant).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "restaurant.update", "restaurant", id, before, restaurant)
	utils.JSONData(ctx, restaurant)
}

// UpdateCapacity - PATCH /api/restaurant/{id}/capacity
func UpdateCapacity(ctx iris.Context) {
	id, ok := paramID(ctx, "id")
	if !ok || !authorizeRestaurant(ctx, id, false) {
		return
	}
	var input CapacityInput
	if !readJSON(ctx, &input) {
		return
	}

	restaurant, ok := loadRestaurant(ctx, id)
	if !ok {
		return
	}
	before := services.CapacityOf(restaurant)
	err := storage.DB.Model(restaurant).Updates(map[string]interface{}{
		"order_available":  input.OrderAvailable,
		"people_available": input.PeopleAvailable,
		"limit_time":       input.LimitTime,
	}).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	after := services.Capacity{OrderAvailable: input.OrderAvailable, PeopleAvailable: input.PeopleAvailable, LimitTime: input.LimitTime}
	utils.Audit(ctx, "restaurant.capacity", "restaurant", id, before, after)
	utils.JSONData(ctx, after)
}

func DeleteRestaurant(ctx iris.Context) {
	id, ok := paramID(ctx, "id")
	if !ok || !authorizeRestaurant(ctx, id, false) {
		return
	}
	restaurant, ok := loadRestaurant(ctx, id)
	if !ok {
		return
	}
	if err := storage.DB.Delete(restaurant).Error; err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "restaurant.delete", "restaurant", id, restaurant, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

// NearbyRestaurants - GET /api/restaurant/nearby?lat=&lng=&radius=  or  ?area=hoan-kiem
func NearbyRestaurants(ctx iris.Context) {
	lat := ctx.URLParamFloat64Default("lat", 0)
	lng := ctx.URLParamFloat64Default("lng", 0)
	radius := ctx.URLParamFloat64Default("radius", 5)

	if key := ctx.URLParam("area"); key != "" {
		area, exists := services.GetAreaInfo(key)
		if !exists {
			utils.WriteError(ctx, utils.NewNotFoundError("area"))
			return
		}
		lat, lng, radius = area.Lat, area.Lng, area.Radius
	}
	if lat == 0 && lng == 0 {
		utils.WriteError(ctx, utils.NewValidationError("lat and lng are required"))
		return
	}
	if radius <= 0 || radius > 50 {
		utils.WriteError(ctx, utils.NewValidationError("radius must be between 0 and 50 km"))
		return
	}

	minLat, maxLat, minLng, maxLng := services.BoundingBox(lat, lng, radius)
	var candidates []models.Restaurant
	err := storage.DB.
		Where("lat BETWEEN ? AND ? AND lng BETWEEN ? AND ?", minLat, maxLat, minLng, maxLng).
		Find(&candidates).Error
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, services.NearbyRestaurants(candidates, lat, lng, radius))
}

func ListAreas(ctx iris.Context) {
	keys := services.GetAreaKeysByPriority()
	areas := make([]iris.Map, 0, len(keys))
	for _, key := range keys {
		area, _ := services.GetAreaInfo(key)
		areas = append(areas, iris.Map{"key": key, "area": area})
	}
	utils.JSONData(ctx, areas)
}
