package routes

import (
	"booking-restaurant-server/services"
	"booking-restaurant-server/utils"

	"github.com/kataras/iris/v12"
)

// DashboardSummary - GET /api/analytics/{id}/summary
func DashboardSummary(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	summary, err := reportService().Summary(ctx.Request().Context(), utils.GetAuthContext(ctx), restaurantID)
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, summary)
}

// RevenueChart - GET /api/analytics/{id}/revenue?range=daily|weekly|monthly
func RevenueChart(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	rng := ctx.URLParamDefault("range", services.RangeDaily)
	points, err := reportService().RevenueChart(ctx.Request().Context(), utils.GetAuthContext(ctx), restaurantID, rng)
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, points)
}

// MenuItemsToPrepare - GET /api/analytics/{id}/prepare?days=7
func MenuItemsToPrepare(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	days := ctx.URLParamIntDefault("days", 7)
	items, err := reportService().MenuItemsToPrepare(ctx.Request().Context(), utils.GetAuthContext(ctx), restaurantID, days)
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, items)
}
