package services

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"context"
	"time"

	"golang.org/x/exp/slices"
)

// ChangeStatus moves an order to status and stores it.
// An order leaving ONHOLD or CANCELLED for PENDING or CONFIRM takes a seating slot again,
// so it goes through the capacity check under the restaurant lock like a new booking.
// A COMPLETED order is final.
func (s *BookingService) ChangeStatus(ctx context.Context, order *models.Order, status string) error {
	if !slices.Contains(models.OrderStatuses, status) {
		return utils.NewValidationError("status must be one of %v", models.OrderStatuses)
	}
	if order.Status == models.OrderCompleted && status != models.OrderCompleted {
		return utils.NewValidationError("a COMPLETED order cannot move back to %s", status)
	}

	next := *order
	next.Status = status
	if status == models.OrderCompleted && next.CheckoutAt == nil {
		now := time.Now()
		next.CheckoutAt = &now
	}

	if models.IsActiveOrderStatus(order.Status) || !models.IsActiveOrderStatus(status) {
		if err := s.store.UpdateOrderStatus(ctx, &next); err != nil {
			return err
		}
		*order = next
		return nil
	}

	err := s.store.Lock(ctx, order.RestaurantID, func(tx BookingStore, r *models.Restaurant) error {
		active, err := tx.ActiveOrders(ctx, r.ID)
		if err != nil {
			return err
		}
		others := make([]models.Order, 0, len(active))
		for _, o := range active {
			if o.ID != order.ID {
				others = append(others, o)
			}
		}
		if err := CheckCapacity(CapacityOf(r), order.CheckIn, order.TotalPeople, others); err != nil {
			return err
		}
		return tx.UpdateOrderStatus(ctx, &next)
	})
	if err != nil {
		if utils.IsKind(err, utils.KindCapacityExceeded) {
			utils.BookingDecisions.WithLabelValues("rejected").Inc()
		}
		return err
	}
	*order = next
	return nil
}
