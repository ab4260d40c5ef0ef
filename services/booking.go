package services

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kataras/golog"
	"golang.org/x/exp/slices"
)

// BookingStore is the persistence the booking flow needs.
// Lock runs fn inside a transaction holding an exclusive lock on the restaurant row,
// so concurrent bookings for the same restaurant are checked one after another.
type BookingStore interface {
	Lock(ctx context.Context, restaurantID uint, fn func(tx BookingStore, restaurant *models.Restaurant) error) error
	ActiveOrders(ctx context.Context, restaurantID uint) ([]models.Order, error)
	MenuItems(ctx context.Context, restaurantID uint, ids []uint) ([]models.MenuItem, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	IncrementBookingCount(ctx context.Context, restaurantID uint) error
	IncrementSoldCounts(ctx context.Context, items []models.OrderItem) error
	UpdateOrderStatus(ctx context.Context, order *models.Order) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event string, payload map[string]interface{}) error
}

type PaymentLinker interface {
	CreatePaymentLink(ctx context.Context, order *models.Order) (string, error)
}

type QRGenerator interface {
	GenerateQR(ctx context.Context, restaurant *models.Restaurant, order *models.Order) (string, error)
}

type OrderNotifier interface {
	NotifyOrderCreated(ctx context.Context, order *models.Order, restaurant *models.Restaurant)
}

type BookingItem struct {
	MenuItemID uint `json:"menuItemID" validate:"required"`
	Quantity   int  `json:"quantity" validate:"required,min=1"`
}

type BookingRequest struct {
	RestaurantID  uint          `json:"-"`
	ReservationID *uint         `json:"reservationID"`
	UserID        *uint         `json:"-"`
	Name          string        `json:"name" validate:"max=256"`
	PhoneNumber   string        `json:"phoneNumber"`
	Email         string        `json:"email" validate:"omitempty,email"`
	CheckIn       time.Time     `json:"checkIn" validate:"required"`
	TotalPeople   int           `json:"totalPeople" validate:"required,min=1"`
	Items         []BookingItem `json:"items" validate:"dive"`
	Payment       string        `json:"payment"`
	Note          string        `json:"note" validate:"max=1000"`
	IsWalkIn      bool          `json:"isWalkIn"`
}

type BookingResult struct {
	Order        *models.Order `json:"order"`
	CheckoutURL  string        `json:"checkoutUrl,omitempty"`
	QRDataURL    string        `json:"qrDataURL,omitempty"`
	PaymentError string        `json:"paymentError,omitempty"`
}

type BookingService struct {
	store    BookingStore
	payments PaymentLinker
	qr       QRGenerator
	events   EventPublisher
	notifier OrderNotifier
}

func NewBookingService(store BookingStore) *BookingService {
	return &BookingService{store: store}
}

func (s *BookingService) WithPayments(payments PaymentLinker, qr QRGenerator) *BookingService {
	s.payments = payments
	s.qr = qr
	return s
}

func (s *BookingService) WithEvents(events EventPublisher) *BookingService {
	s.events = events
	return s
}

func (s *BookingService) WithNotifier(notifier OrderNotifier) *BookingService {
	s.notifier = notifier
	return s
}

func validateBooking(req *BookingRequest) error {
	if req.RestaurantID == 0 {
		return utils.NewValidationError("restaurant is required")
	}
	if req.CheckIn.IsZero() {
		return utils.NewValidationError("checkIn is required")
	}
	if req.TotalPeople < 1 {
		return utils.NewValidationError("totalPeople must be at least 1")
	}
	if req.Payment == "" {
		req.Payment = models.PaymentCash
	}
	if !slices.Contains(models.PaymentMethods, req.Payment) {
		return utils.NewValidationError("payment must be one of %v", models.PaymentMethods)
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return utils.NewValidationError("item quantity must be at least 1")
		}
	}
	if req.PhoneNumber != "" && !utils.ValidatePhoneNumber(req.PhoneNumber) {
		return utils.NewValidationError("invalid phone number")
	}
	return nil
}

// PriceItems turns requested items into order lines priced at the current menu price.
func PriceItems(requested []BookingItem, menu []models.MenuItem) ([]models.OrderItem, error) {
	byID := make(map[uint]models.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	lines := make([]models.OrderItem, 0, len(requested))
	for _, r := range requested {
		m, ok := byID[r.MenuItemID]
		if !ok {
			return nil, utils.NewValidationError("menu item %d does not belong to this restaurant", r.MenuItemID)
		}
		if !m.IsAvailable {
			return nil, utils.NewValidationError("%s is not available", m.Name)
		}
		lines = append(lines, models.OrderItem{
			MenuItemID:     m.ID,
			Name:           m.Name,
			Unit:           m.Unit,
			Quantity:       r.Quantity,
			PriceAtBooking: m.Price,
		})
	}
	return lines, nil
}

// Book runs the capacity check and, when it passes, stores the order as PENDING.
// Payment link / QR creation happens after the order is committed; its failure is reported
// in the result and never rolls the order back.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	if err := validateBooking(&req); err != nil {
		return nil, err
	}

	var order *models.Order
	var restaurant models.Restaurant
	err := s.store.Lock(ctx, req.RestaurantID, func(tx BookingStore, r *models.Restaurant) error {
		restaurant = *r
		active, err := tx.ActiveOrders(ctx, r.ID)
		if err != nil {
			return err
		}
		if err := CheckCapacity(CapacityOf(r), req.CheckIn, req.TotalPeople, active); err != nil {
			return err
		}

		var lines []models.OrderItem
		if len(req.Items) > 0 {
			ids := make([]uint, 0, len(req.Items))
			for _, item := range req.Items {
				ids = append(ids, item.MenuItemID)
			}
			menu, err := tx.MenuItems(ctx, r.ID, ids)
			if err != nil {
				return err
			}
			if lines, err = PriceItems(req.Items, menu); err != nil {
				return err
			}
		}

		order = &models.Order{
			RestaurantID:  r.ID,
			ReservationID: req.ReservationID,
			UserID:        req.UserID,
			Name:          req.Name,
			PhoneNumber:   req.PhoneNumber,
			Email:         req.Email,
			CheckIn:       req.CheckIn,
			TotalPeople:   req.TotalPeople,
			Items:         lines,
			Payment:       req.Payment,
			PaymentRef:    uuid.NewString(),
			Status:        models.OrderPending,
			IsWalkIn:      req.IsWalkIn,
			Note:          req.Note,
		}
		order.RecalculateTotal()

		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.IncrementBookingCount(ctx, r.ID); err != nil {
			return err
		}
		return tx.IncrementSoldCounts(ctx, lines)
	})
	if err != nil {
		if utils.IsKind(err, utils.KindCapacityExceeded) {
			utils.BookingDecisions.WithLabelValues("rejected").Inc()
		}
		return nil, err
	}
	utils.BookingDecisions.WithLabelValues("accepted").Inc()

	result := &BookingResult{Order: order}
	s.afterBooking(ctx, order, &restaurant, result)
	return result, nil
}

func (s *BookingService) afterBooking(ctx context.Context, order *models.Order, restaurant *models.Restaurant, result *BookingResult) {
	if s.events != nil {
		err := s.events.Publish(ctx, "order.created", map[string]interface{}{
			"orderID":      order.ID,
			"restaurantID": order.RestaurantID,
			"checkIn":      order.CheckIn,
			"totalPeople":  order.TotalPeople,
			"total":        order.Total,
		})
		if err != nil {
			golog.Warnf("⚠️  order %d: event not published: %v", order.ID, err)
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyOrderCreated(ctx, order, restaurant)
	}

	var err error
	switch order.Payment {
	case models.PaymentCreditCard:
		if s.payments != nil {
			result.CheckoutURL, err = s.payments.CreatePaymentLink(ctx, order)
		}
	case models.PaymentBankTransfer:
		if s.qr != nil {
			result.QRDataURL, err = s.qr.GenerateQR(ctx, restaurant, order)
		}
	}
	if err != nil {
		golog.Errorf("❌ order %d stays PENDING, payment setup failed: %v", order.ID, err)
		result.PaymentError = err.Error()
	}
}
