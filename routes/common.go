package routes

import (
	"booking-restaurant-server/config"
	"booking-restaurant-server/models"
	"booking-restaurant-server/services"
	"booking-restaurant-server/storage"
	"booking-restaurant-server/utils"
	"context"
	"errors"
	"time"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

var (
	reportLocation = time.UTC
	payOS          services.PaymentLinker
	vietQR         services.QRGenerator
)

// Configure sets up the outbound clients and report time zone used by the handlers.
func Configure(cfg *config.Config) {
	reportLocation = cfg.Report.Location()
	payOS = services.NewPayOSClient(cfg.Payment)
	vietQR = services.NewVietQRClient(cfg.QR)
}

func notificationService() *services.NotificationService {
	var queue services.NotificationPublisher
	if storage.Queue != nil {
		queue = storage.Queue
	}
	return services.NewNotificationService(services.NewGormNotificationStore(storage.DB), queue)
}

func eventPublisher() services.EventPublisher {
	if storage.Events == nil {
		return nil
	}
	return storage.Events
}

func bookingService() *services.BookingService {
	return services.NewBookingService(services.NewGormBookingStore(storage.DB)).
		WithPayments(payOS, vietQR).
		WithEvents(eventPublisher()).
		WithNotifier(notificationService())
}

func reportService() *services.ReportService {
	return services.NewReportService(services.NewGormReportStore(storage.DB), reportLocation)
}

func snapshotJob() *services.SnapshotJob {
	return services.NewSnapshotJob(services.NewGormReportStore(storage.DB), reportLocation).WithEvents(eventPublisher())
}

// ManagerRestaurant resolves the restaurant a manager is assigned to.
func ManagerRestaurant(db *gorm.DB) utils.ManagerRestaurantResolver {
	return func(ctx context.Context, userID uint) (*uint, error) {
		var user models.User
		if err := db.WithContext(ctx).Select("id, restaurant_id").First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NewAuthorizationError("unknown user")
			}
			return nil, err
		}
		if user.RestaurantID == nil {
			return nil, utils.NewAuthorizationError("manager is not assigned to a restaurant")
		}
		return user.RestaurantID, nil
	}
}

func paramID(ctx iris.Context, name string) (uint, bool) {
	id, err := ctx.Params().GetUint(name)
	if err != nil || id == 0 {
		utils.WriteError(ctx, utils.NewValidationError("invalid %s", name))
		return 0, false
	}
	return id, true
}

// readJSON decodes and validates the body, writing the validation envelope on failure.
func readJSON(ctx iris.Context, v interface{}) bool {
	if err := ctx.ReadJSON(v); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return false
	}
	return true
}

// authorizeRestaurant lets admins, the owner, and (when allowManager is set) the restaurant's
// manager through. Anything else gets the error envelope and false.
func authorizeRestaurant(ctx iris.Context, restaurantID uint, allowManager bool) bool {
	auth := utils.GetAuthContext(ctx)
	if !allowManager && auth != nil && auth.Role == models.RoleManager {
		utils.WriteError(ctx, utils.NewAuthorizationError("managers cannot change restaurant settings"))
		return false
	}
	if err := reportService().AuthorizeRestaurant(ctx.Request().Context(), auth, restaurantID); err != nil {
		utils.WriteError(ctx, err)
		return false
	}
	return true
}

func loadRestaurant(ctx iris.Context, id uint) (*models.Restaurant, bool) {
	var restaurant models.Restaurant
	if err := storage.DB.WithContext(ctx.Request().Context()).First(&restaurant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(ctx, utils.NewNotFoundError("restaurant"))
		} else {
			utils.WriteError(ctx, err)
		}
		return nil, false
	}
	return &restaurant, true
}
