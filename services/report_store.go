package services

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReportStore serves reports, dashboards and the daily snapshot job from Postgres.
type GormReportStore struct {
	db *gorm.DB
}

func NewGormReportStore(db *gorm.DB) *GormReportStore {
	return &GormReportStore{db: db}
}

func (s *GormReportStore) RestaurantOwner(ctx context.Context, restaurantID uint) (uint, error) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).Select("id, owner_id").First(&restaurant, restaurantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, utils.NewNotFoundError("restaurant")
	}
	return restaurant.OwnerID, err
}

func (s *GormReportStore) RestaurantIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	ids := []uint{}
	err := s.db.WithContext(ctx).Model(&models.Restaurant{}).Where("owner_id = ?", ownerID).Pluck("id", &ids).Error
	return ids, err
}

// CompletedOrders selects by visit date (check-in), so a late dinner checked out after
// midnight still counts on the day it was served.
func (s *GormReportStore) CompletedOrders(ctx context.Context, restaurantIDs []uint, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("restaurant_id IN ? AND status = ? AND check_in >= ? AND check_in < ?", restaurantIDs, models.OrderCompleted, from, to).
		Order("check_in").
		Find(&orders).Error
	return orders, err
}

func (s *GormReportStore) Reservations(ctx context.Context, restaurantIDs []uint, from, to time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.WithContext(ctx).
		Where("restaurant_id IN ? AND check_in >= ? AND check_in < ?", restaurantIDs, from, to).
		Find(&reservations).Error
	return reservations, err
}

func (s *GormReportStore) CheckedOutOrders(ctx context.Context, restaurantID uint, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND status = ? AND checkout_at >= ? AND checkout_at < ?", restaurantID, models.OrderCompleted, from, to).
		Find(&orders).Error
	return orders, err
}

func (s *GormReportStore) UpcomingOrders(ctx context.Context, restaurantID uint, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("restaurant_id = ? AND status <> ? AND check_in >= ? AND check_in < ?", restaurantID, models.OrderCancelled, from, to).
		Find(&orders).Error
	return orders, err
}

func (s *GormReportStore) OrderTotals(ctx context.Context, restaurantID uint) (orders, users, people int64, err error) {
	row := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("COUNT(*), COUNT(DISTINCT user_id), COALESCE(SUM(total_people), 0)").
		Where("restaurant_id = ?", restaurantID).
		Row()
	err = row.Scan(&orders, &users, &people)
	return orders, users, people, err
}

func (s *GormReportStore) CompletedRevenue(ctx context.Context, restaurantID uint, from, to time.Time) (float64, error) {
	var revenue float64
	row := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("restaurant_id = ? AND status = ? AND checkout_at >= ? AND checkout_at < ?", restaurantID, models.OrderCompleted, from, to).
		Row()
	err := row.Scan(&revenue)
	return revenue, err
}

func (s *GormReportStore) Snapshots(ctx context.Context, restaurantIDs []uint, from, to time.Time) ([]models.RestaurantReport, error) {
	var reports []models.RestaurantReport
	query := s.db.WithContext(ctx).
		Preload("Restaurant", func(db *gorm.DB) *gorm.DB { return db.Unscoped().Select("id, name, owner_id") }).
		Where("date >= ? AND date < ?", from, to)
	if restaurantIDs != nil {
		query = query.Where("restaurant_id IN ?", restaurantIDs)
	}
	err := query.Order("date, restaurant_id").Find(&reports).Error
	return reports, err
}

func (s *GormReportStore) ReservationsWithOrders(ctx context.Context, restaurantIDs []uint, from, to time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	query := s.db.WithContext(ctx).
		Preload("Restaurant", func(db *gorm.DB) *gorm.DB { return db.Select("id, name, province, district, address_line") }).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id, first_name, last_name, email") }).
		Preload("Orders.Items").
		Where("check_in >= ? AND check_in < ?", from, to)
	if restaurantIDs != nil {
		query = query.Where("restaurant_id IN ?", restaurantIDs)
	}
	err := query.Order("check_in").Find(&reservations).Error
	return reservations, err
}

func (s *GormReportStore) AllRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := s.db.WithContext(ctx).Select("id, owner_id, name").Order("id").Find(&restaurants).Error
	return restaurants, err
}

func (s *GormReportStore) OrdersCreated(ctx context.Context, restaurantID uint, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restaurantID, from, to).
		Find(&orders).Error
	return orders, err
}

// UpsertSnapshot replaces the (restaurant, date) row, so re-running a day overwrites instead of adding.
func (s *GormReportStore) UpsertSnapshot(ctx context.Context, report *models.RestaurantReport) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "restaurant_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"owner_id", "total_orders", "total_revenue", "total_users",
			"reservation_count", "top_selling_items", "updated_at",
		}),
	}).Create(report).Error
}
