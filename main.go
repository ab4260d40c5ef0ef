package main

import (
	"booking-restaurant-server/config"
	"booking-restaurant-server/models"
	"booking-restaurant-server/routes"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/golog"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/kataras/iris/v12/middleware/logger"
	"github.com/kataras/iris/v12/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	// Initialize services
	storage.InitializeDB(cfg.Database)
	storage.InitializeRedis(cfg.Redis)
	storage.InitializeImages(cfg.Images)
	storage.InitializeEvents(cfg.Kafka)
	storage.InitializeQueue(cfg.RabbitMQ)
	defer storage.Events.Close()
	defer storage.Queue.Close()

	utils.ConfigureTokens(cfg.JWT)
	routes.Configure(cfg)

	app := iris.New()
	app.Validator = validator.New()
	app.Logger().SetLevel("info")

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, X-Request-ID")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.UseRouter(recover.New())
	app.UseRouter(logger.New())
	app.Use(utils.RequestIDMiddleware, utils.MetricsMiddleware)
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(cfg.JWT.AccessSecret))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(cfg.JWT.RefreshSecret))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Every authenticated route resolves the caller once, managers included.
	auth := []iris.Handler{accessTokenVerifierMiddleware, utils.AuthContextMiddleware(routes.ManagerRestaurant(storage.DB))}
	staff := chain(auth, utils.RequireRoles(models.RoleOwner, models.RoleManager, models.RoleAdmin, models.RoleSuperAdmin), utils.RequireManagerRestaurant)
	owners := chain(auth, utils.RequireRoles(models.RoleOwner, models.RoleAdmin, models.RoleSuperAdmin))

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})
	app.Get("/metrics", iris.FromStd(promhttp.Handler()))

	// Routes
	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Get("/me", chain(auth, routes.GetMe)...)
		user.Patch("/me", chain(auth, routes.UpdateMe)...)
		user.Get("/favorites", chain(auth, routes.ListFavorites)...)
		user.Post("/searches", chain(auth, routes.RecordSearch)...)
		user.Get("/recently-viewed", chain(auth, routes.RecentlyViewed)...)
		user.Get("/recommendations", chain(auth, routes.Recommendations)...)
	}

	restaurant := app.Party("/api/restaurant")
	{
		restaurant.Get("/", routes.ListRestaurants)
		restaurant.Get("/areas", routes.ListAreas)
		restaurant.Get("/nearby", routes.NearbyRestaurants)
		restaurant.Get("/mine", chain(staff, routes.ListOwnerRestaurants)...)
		restaurant.Post("/", chain(owners, routes.CreateRestaurant)...)
		restaurant.Get("/{id:uint}", routes.GetRestaurant)
		restaurant.Patch("/{id:uint}", chain(owners, routes.UpdateRestaurant)...)
		restaurant.Delete("/{id:uint}", chain(owners, routes.DeleteRestaurant)...)
		restaurant.Patch("/{id:uint}/capacity", chain(owners, routes.UpdateCapacity)...)
		restaurant.Patch("/{id:uint}/manager", chain(owners, routes.AssignManager)...)

		restaurant.Get("/{id:uint}/menu", routes.ListMenu)
		restaurant.Get("/{id:uint}/menu/best-sellers", routes.BestSellers)
		restaurant.Post("/{id:uint}/menu", chain(staff, routes.CreateMenuItem)...)
		restaurant.Patch("/{id:uint}/menu/{itemId:uint}", chain(staff, routes.UpdateMenuItem)...)
		restaurant.Delete("/{id:uint}/menu/{itemId:uint}", chain(staff, routes.DeleteMenuItem)...)

		restaurant.Get("/{id:uint}/promotions", routes.ListPromotions)
		restaurant.Post("/{id:uint}/promotions", chain(staff, routes.CreatePromotion)...)
		restaurant.Patch("/{id:uint}/promotions/{promotionId:uint}", chain(staff, routes.UpdatePromotion)...)
		restaurant.Delete("/{id:uint}/promotions/{promotionId:uint}", chain(staff, routes.DeletePromotion)...)

		restaurant.Post("/{id:uint}/orders", chain(auth, routes.CreateOrder)...)
		restaurant.Get("/{id:uint}/orders", chain(staff, routes.ListRestaurantOrders)...)
		restaurant.Get("/{id:uint}/orders/today", chain(staff, routes.TodayOrders)...)
		restaurant.Post("/{id:uint}/reservations", chain(auth, routes.CreateReservation)...)
		restaurant.Get("/{id:uint}/reservations", chain(staff, routes.ListRestaurantReservations)...)

		restaurant.Get("/{id:uint}/reviews", routes.ListRestaurantReviews)
		restaurant.Get("/{id:uint}/reviews/average", routes.ReviewAverage)
		restaurant.Post("/{id:uint}/reviews", chain(auth, routes.CreateReview)...)
		restaurant.Post("/{id:uint}/favorite", chain(auth, routes.AddFavorite)...)
		restaurant.Delete("/{id:uint}/favorite", chain(auth, routes.RemoveFavorite)...)
		restaurant.Post("/{id:uint}/view", chain(auth, routes.RecordView)...)
	}

	orders := app.Party("/api/orders", auth...)
	{
		orders.Get("/me", routes.ListMyOrders)
		orders.Get("/{orderId:uint}", routes.GetOrder)
		orders.Patch("/{orderId:uint}/items", routes.UpdateOrderItems)
		orders.Patch("/{orderId:uint}/status", routes.UpdateOrderStatus)
		orders.Post("/{orderId:uint}/rate", routes.RateOrder)
	}

	reservations := app.Party("/api/reservations", auth...)
	{
		reservations.Get("/me", routes.ListMyReservations)
		reservations.Get("/{reservationId:uint}", routes.GetReservation)
		reservations.Patch("/{reservationId:uint}/status", routes.UpdateReservationStatus)
		reservations.Post("/{reservationId:uint}/rate", routes.RateReservation)
	}

	analytics := app.Party("/api/analytics", staff...)
	{
		analytics.Get("/{id:uint}/summary", routes.DashboardSummary)
		analytics.Get("/{id:uint}/revenue", routes.RevenueChart)
		analytics.Get("/{id:uint}/prepare", routes.MenuItemsToPrepare)
	}

	reports := app.Party("/api/reports", staff...)
	{
		reports.Get("/restaurant/{id:uint}", routes.ReportByRestaurant)
		reports.Get("/owner", routes.ReportByOwner)
		reports.Get("/manager", routes.ReportByManager)
		reports.Get("/monthly", routes.MonthlyRollup)
		reports.Get("/monthly/export", routes.ExportMonthlyRollup)
		reports.Get("/reservations", routes.MonthlyReservations)
	}

	notifications := app.Party("/api/notifications", auth...)
	{
		notifications.Get("/", routes.ListNotifications)
		notifications.Get("/unread", routes.UnreadCount)
		notifications.Patch("/read-all", routes.MarkAllNotificationsRead)
		notifications.Patch("/{notificationId:uint}/read", routes.MarkNotificationRead)
	}

	upload := app.Party("/api/upload", staff...)
	{
		upload.Post("/image", routes.UploadImage)
		upload.Delete("/image", routes.DeleteImage)
	}

	admin := app.Party("/api/admin", chain(auth, utils.AdminOnlyMiddleware)...)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/{id:uint}/role", utils.SuperAdminOnlyMiddleware, routes.AdminChangeUserRole)
		admin.Get("/users/{id:uint}", routes.AdminGetUser)
		admin.Get("/audit", routes.AdminAuditLogs)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
		admin.Get("/reviews", routes.AdminListReviews)
		admin.Patch("/reviews/{reviewId:uint}/flag", routes.AdminFlagReview)
		admin.Delete("/reviews/{reviewId:uint}", routes.AdminDeleteReview)
		admin.Get("/orders", routes.AdminListOrders)
		admin.Get("/reservations", routes.AdminListReservations)
		admin.Post("/reservations/{reservationId:uint}/cancel", routes.AdminCancelReservation)
		admin.Delete("/orders/{orderId:uint}", routes.DeleteOrder)
		admin.Post("/reports/snapshot", routes.RunSnapshot)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := cfg.Server.Port
	golog.Infof("🚀 Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		golog.Fatalf("server stopped: %v", err)
	}
}

// chain copies the middleware so route registrations never share a backing array.
func chain(middleware []iris.Handler, handlers ...iris.Handler) []iris.Handler {
	out := make([]iris.Handler, 0, len(middleware)+len(handlers))
	out = append(out, middleware...)
	return append(out, handlers...)
}
