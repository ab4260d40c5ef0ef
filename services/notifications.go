package services

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"context"
	"fmt"
	"time"

	"github.com/kataras/golog"
	"gorm.io/gorm"
)

const (
	NotificationOrderCreated       = "order_created"
	NotificationOrderStatus        = "order_status"
	NotificationReservationCreated = "reservation_created"
	NotificationWelcome            = "welcome"
)

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// NotificationPublisher hands a delivery job to the workers (push, mail) behind the queue.
type NotificationPublisher interface {
	PublishJSON(ctx context.Context, v interface{}) error
}

// NotificationJob is what delivery workers receive for every stored notification.
type NotificationJob struct {
	NotificationID uint      `json:"notificationID"`
	UserID         uint      `json:"userID"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	RefType        string    `json:"refType,omitempty"`
	RefID          uint      `json:"refID,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NotificationService stores in-app notifications and queues their delivery.
type NotificationService struct {
	store NotificationStore
	queue NotificationPublisher
}

func NewNotificationService(store NotificationStore, queue NotificationPublisher) *NotificationService {
	return &NotificationService{store: store, queue: queue}
}

// Notify persists one notification and queues it. Queue failures are logged only,
// the stored row is still visible in the user's inbox.
func (ns *NotificationService) Notify(ctx context.Context, userID uint, typ, title, message, refType string, refID uint) error {
	if userID == 0 {
		return nil
	}
	n := &models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		RefType: refType,
		RefID:   refID,
	}
	if err := ns.store.CreateNotification(ctx, n); err != nil {
		golog.Errorf("❌ notification for user %d not stored: %v", userID, err)
		return err
	}

	if ns.queue != nil {
		err := ns.queue.PublishJSON(ctx, NotificationJob{
			NotificationID: n.ID,
			UserID:         n.UserID,
			Type:           n.Type,
			Title:          n.Title,
			Message:        n.Message,
			RefType:        n.RefType,
			RefID:          n.RefID,
			CreatedAt:      n.CreatedAt,
		})
		if err != nil {
			golog.Warnf("⚠️  notification %d not queued: %v", n.ID, err)
		}
	}
	return nil
}

// NotifyOrderCreated tells the owner about the new order and the guest that it was received.
func (ns *NotificationService) NotifyOrderCreated(ctx context.Context, order *models.Order, restaurant *models.Restaurant) {
	guest := order.Name
	if guest == "" {
		guest = "A guest"
	}
	ns.Notify(ctx, restaurant.OwnerID, NotificationOrderCreated,
		"New booking",
		fmt.Sprintf("%s booked %s for %d people at %s", guest, restaurant.Name, order.TotalPeople, order.CheckIn.Format("02/01 15:04")),
		"order", order.ID)

	if order.UserID != nil {
		ns.Notify(ctx, *order.UserID, NotificationOrderCreated,
			"Booking received",
			fmt.Sprintf("Your table at %s is booked, waiting for confirmation", restaurant.Name),
			"order", order.ID)
	}
}

func (ns *NotificationService) NotifyOrderStatus(ctx context.Context, order *models.Order, restaurantName string) {
	if order.UserID == nil {
		return
	}
	if restaurantName == "" {
		restaurantName = "the restaurant"
	}
	var message string
	switch order.Status {
	case models.OrderConfirm:
		message = fmt.Sprintf("%s confirmed your booking", restaurantName)
	case models.OrderCancelled:
		message = fmt.Sprintf("Your booking at %s was cancelled", restaurantName)
	case models.OrderCompleted:
		message = fmt.Sprintf("Thanks for dining at %s, tell us how it was", restaurantName)
	default:
		message = fmt.Sprintf("Your booking at %s is now %s", restaurantName, order.Status)
	}
	ns.Notify(ctx, *order.UserID, NotificationOrderStatus, "Booking update", message, "order", order.ID)
}

func (ns *NotificationService) NotifyReservationCreated(ctx context.Context, reservation *models.Reservation, ownerID uint) {
	ns.Notify(ctx, ownerID, NotificationReservationCreated,
		"New reservation",
		fmt.Sprintf("%s (%s) reserved a table for %d people on %s", reservation.Name, utils.DisplayPhoneNumber(reservation.PhoneNumber), reservation.TotalPeople, reservation.CheckIn.Format("02/01 15:04")),
		"reservation", reservation.ID)
}

func (ns *NotificationService) NotifyWelcome(ctx context.Context, user *models.User) {
	ns.Notify(ctx, user.ID, NotificationWelcome,
		"Welcome!",
		fmt.Sprintf("Hi %s, find a table near you and book it in seconds", user.FirstName),
		"", 0)
}

type GormNotificationStore struct {
	db *gorm.DB
}

func NewGormNotificationStore(db *gorm.DB) *GormNotificationStore {
	return &GormNotificationStore{db: db}
}

func (s *GormNotificationStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}
