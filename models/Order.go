package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderPending   = "PENDING"
	OrderConfirm   = "CONFIRM"
	OrderOnHold    = "ONHOLD"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
)

var OrderStatuses = []string{OrderPending, OrderConfirm, OrderOnHold, OrderCompleted, OrderCancelled}

// ActiveOrderStatuses are the statuses that occupy a seating slot.
var ActiveOrderStatuses = []string{OrderPending, OrderConfirm}

const (
	PaymentCash         = "CASH"
	PaymentCreditCard   = "CREDIT_CARD"
	PaymentBankTransfer = "BANK_TRANSFER"
)

var PaymentMethods = []string{PaymentCash, PaymentCreditCard, PaymentBankTransfer}

type Order struct {
	gorm.Model
	RestaurantID  uint         `json:"restaurantID" gorm:"not null;index"`
	Restaurant    *Restaurant  `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	ReservationID *uint        `json:"reservationID" gorm:"index;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Reservation   *Reservation `json:"reservation,omitempty" gorm:"foreignKey:ReservationID"`
	UserID        *uint        `json:"userID" gorm:"index"`
	User          *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`

	Name        string      `json:"name"`
	PhoneNumber string      `json:"phoneNumber"`
	Email       string      `json:"email"`
	CheckIn     time.Time   `json:"checkIn" gorm:"not null;index"`
	CheckoutAt  *time.Time  `json:"checkoutAt" gorm:"index"` // recorded when the order completes
	TotalPeople int         `json:"totalPeople" gorm:"not null"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;"`
	Total       float64     `json:"total" gorm:"default:0"`
	Payment     string      `json:"payment" gorm:"type:varchar(20);default:CASH"`
	PaymentRef  string      `json:"paymentRef" gorm:"index"`
	Status      string      `json:"status" gorm:"type:varchar(16);default:PENDING;index"`
	IsWalkIn    bool        `json:"isWalkIn" gorm:"default:false"`
	Note        string      `json:"note"`
	Rating      int         `json:"rating" gorm:"default:0"`
}

type OrderItem struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	OrderID        uint    `json:"orderID" gorm:"not null;index"`
	MenuItemID     uint    `json:"menuItemID" gorm:"index"`
	Name           string  `json:"name"`
	Unit           string  `json:"unit"`
	Quantity       int     `json:"quantity" gorm:"default:1"`
	PriceAtBooking float64 `json:"priceAtBooking"`
}

// WindowEnd is the end of the seating slot the order occupies.
func (o *Order) WindowEnd(limitHours int) time.Time {
	return o.CheckIn.Add(time.Duration(limitHours) * time.Hour)
}

// RecalculateTotal sets Total to the sum of quantity × priceAtBooking over the line items.
func (o *Order) RecalculateTotal() {
	o.Total = ItemsTotal(o.Items)
}

// BeforeSave keeps Total in step with the line items whenever they are loaded on the struct.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	if len(o.Items) > 0 {
		o.RecalculateTotal()
	}
	return nil
}

func ItemsTotal(items []OrderItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.PriceAtBooking).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	total, _ := sum.Float64()
	return total
}

func IsActiveOrderStatus(status string) bool {
	for _, s := range ActiveOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}
