package services

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormBookingStore struct {
	db *gorm.DB
}

func NewGormBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{db: db}
}

func (s *GormBookingStore) Lock(ctx context.Context, restaurantID uint, fn func(tx BookingStore, restaurant *models.Restaurant) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&restaurant, restaurantID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFoundError("restaurant")
		}
		if err != nil {
			return err
		}
		return fn(&GormBookingStore{db: tx}, &restaurant)
	})
}

func (s *GormBookingStore) ActiveOrders(ctx context.Context, restaurantID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND status IN ?", restaurantID, models.ActiveOrderStatuses).
		Find(&orders).Error
	return orders, err
}

func (s *GormBookingStore) MenuItems(ctx context.Context, restaurantID uint, ids []uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND id IN ?", restaurantID, ids).
		Find(&items).Error
	return items, err
}

func (s *GormBookingStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *GormBookingStore) IncrementBookingCount(ctx context.Context, restaurantID uint) error {
	return s.db.WithContext(ctx).Model(&models.Restaurant{}).
		Where("id = ?", restaurantID).
		UpdateColumn("booking_count", gorm.Expr("booking_count + ?", 1)).Error
}

func (s *GormBookingStore) IncrementSoldCounts(ctx context.Context, items []models.OrderItem) error {
	for _, item := range items {
		err := s.db.WithContext(ctx).Model(&models.MenuItem{}).
			Where("id = ?", item.MenuItemID).
			UpdateColumn("sold_count", gorm.Expr("sold_count + ?", item.Quantity)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateOrderStatus writes the status and checkout time of order.
func (s *GormBookingStore) UpdateOrderStatus(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{"status": order.Status, "checkout_at": order.CheckoutAt}).Error
}
