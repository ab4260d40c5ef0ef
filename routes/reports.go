package routes

import (
	"booking-restaurant-server/services"
	"booking-restaurant-server/utils"
	"time"

	"github.com/kataras/iris/v12"
)

func periodQuery(ctx iris.Context) services.PeriodQuery {
	return services.PeriodQuery{
		Year:  ctx.URLParam("year"),
		Month: ctx.URLParam("month"),
		Day:   ctx.URLParam("day"),
	}
}

// scopeParams reads the optional ownerId / restaurantId query values.
func scopeParams(ctx iris.Context) (ownerID, restaurantID uint, ok bool) {
	owner := ctx.URLParamIntDefault("ownerId", 0)
	restaurant := ctx.URLParamIntDefault("restaurantId", 0)
	if owner < 0 || restaurant < 0 {
		utils.WriteError(ctx, utils.NewValidationError("ownerId and restaurantId must be positive"))
		return 0, 0, false
	}
	return uint(owner), uint(restaurant), true
}

// ReportByRestaurant - GET /api/reports/restaurant/{id}?year=&month=&day=
func ReportByRestaurant(ctx iris.Context) {
	restaurantID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	report, err := reportService().ReportByRestaurant(ctx.Request().Context(), utils.GetAuthContext(ctx), restaurantID, periodQuery(ctx))
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, report)
}

// ReportByOwner - GET /api/reports/owner?year=&month=&day=&ownerId=&restaurantId=
func ReportByOwner(ctx iris.Context) {
	ownerID, restaurantID, ok := scopeParams(ctx)
	if !ok {
		return
	}
	report, err := reportService().ReportByOwner(ctx.Request().Context(), utils.GetAuthContext(ctx), ownerID, restaurantID, periodQuery(ctx))
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, report)
}

// ReportByManager - GET /api/reports/manager?year=&month=&day=
func ReportByManager(ctx iris.Context) {
	report, err := reportService().ReportByManager(ctx.Request().Context(), utils.GetAuthContext(ctx), periodQuery(ctx))
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, report)
}

// MonthlyRollup - GET /api/reports/monthly?year=&month=&ownerId=&restaurantId=
func MonthlyRollup(ctx iris.Context) {
	ownerID, restaurantID, ok := scopeParams(ctx)
	if !ok {
		return
	}
	rows, err := reportService().MonthlyRollup(ctx.Request().Context(), utils.GetAuthContext(ctx), ownerID, restaurantID, periodQuery(ctx))
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, rows)
}

// MonthlyReservations - GET /api/reports/reservations?year=&month=&ownerId=&restaurantId=
func MonthlyReservations(ctx iris.Context) {
	ownerID, restaurantID, ok := scopeParams(ctx)
	if !ok {
		return
	}
	out, err := reportService().MonthlyReservations(ctx.Request().Context(), utils.GetAuthContext(ctx), ownerID, restaurantID, periodQuery(ctx))
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.JSONData(ctx, out)
}

// RunSnapshot - POST /api/admin/reports/snapshot?date=2024-05-14
// Without a date it snapshots yesterday, which is what the nightly trigger does.
func RunSnapshot(ctx iris.Context) {
	day := time.Now().In(reportLocation).AddDate(0, 0, -1)
	if raw := ctx.URLParam("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, reportLocation)
		if err != nil {
			utils.WriteError(ctx, utils.NewValidationError("date must look like 2006-01-02"))
			return
		}
		day = parsed
	}

	run, err := snapshotJob().Run(ctx.Request().Context(), day)
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}
	utils.Audit(ctx, "report.snapshot", "restaurant_report", 0, nil, run)
	utils.JSONData(ctx, run)
}
