package routes

import (
	"booking-restaurant-server/services"
	"booking-restaurant-server/utils"
	"bytes"
	"fmt"

	"github.com/kataras/iris/v12"
)

// GET /api/reports/monthly/export?year=&month=&ownerId=&restaurantId=
// Same scope rules as the monthly rollup, delivered as a CSV download.
func ExportMonthlyRollup(ctx iris.Context) {
	ownerID, restaurantID, ok := scopeParams(ctx)
	if !ok {
		return
	}
	q := periodQuery(ctx)
	rows, err := reportService().MonthlyRollup(ctx.Request().Context(), utils.GetAuthContext(ctx), ownerID, restaurantID, q)
	if err != nil {
		utils.WriteError(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteRollupCSV(&buf, rows, reportLocation); err != nil {
		utils.WriteError(ctx, err)
		return
	}
	ctx.ContentType("text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s-%s.csv"`, q.Year, q.Month))
	ctx.Write(buf.Bytes())
}
