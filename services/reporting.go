package services

import (
	"booking-restaurant-server/models"
	"booking-restaurant-server/utils"
	"context"
	"time"

	"golang.org/x/exp/slices"
)

// ReportStore is the read side the reports and dashboards need.
type ReportStore interface {
	RestaurantOwner(ctx context.Context, restaurantID uint) (uint, error)
	RestaurantIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error)
	CompletedOrders(ctx context.Context, restaurantIDs []uint, from, to time.Time) ([]models.Order, error)
	Reservations(ctx context.Context, restaurantIDs []uint, from, to time.Time) ([]models.Reservation, error)
	CheckedOutOrders(ctx context.Context, restaurantID uint, from, to time.Time) ([]models.Order, error)
	UpcomingOrders(ctx context.Context, restaurantID uint, from, to time.Time) ([]models.Order, error)
	OrderTotals(ctx context.Context, restaurantID uint) (orders, users, people int64, err error)
	CompletedRevenue(ctx context.Context, restaurantID uint, from, to time.Time) (float64, error)
	// A nil restaurantIDs slice means every restaurant.
	Snapshots(ctx context.Context, restaurantIDs []uint, from, to time.Time) ([]models.RestaurantReport, error)
	ReservationsWithOrders(ctx context.Context, restaurantIDs []uint, from, to time.Time) ([]models.Reservation, error)
}

// PeriodQuery carries the raw year / month / day query values.
type PeriodQuery struct {
	Year  string
	Month string
	Day   string
}

type ReportService struct {
	store ReportStore
	loc   *time.Location
	now   func() time.Time
}

func NewReportService(store ReportStore, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{store: store, loc: loc, now: time.Now}
}

func (s *ReportService) clock() time.Time {
	return s.now().In(s.loc)
}

// AuthorizeRestaurant checks that the caller may see restaurantID's figures.
// Admins see everything, owners their own restaurants, managers the restaurant they work for.
func (s *ReportService) AuthorizeRestaurant(ctx context.Context, auth *utils.AuthContext, restaurantID uint) error {
	if auth == nil {
		return utils.NewAuthorizationError("authentication required")
	}
	if auth.Role == models.RoleManager {
		if auth.RestaurantID == nil || *auth.RestaurantID != restaurantID {
			return utils.NewAuthorizationError("you are not a manager of this restaurant")
		}
		return nil
	}

	ownerID, err := s.store.RestaurantOwner(ctx, restaurantID)
	if err != nil {
		return err
	}
	switch {
	case auth.IsAdmin():
		return nil
	case auth.Role == models.RoleOwner && ownerID == auth.UserID:
		return nil
	default:
		return utils.NewAuthorizationError("you do not own this restaurant")
	}
}

// ownerScope resolves which restaurants an owner-level query covers.
// ownerID 0 means "the caller" for owners and "everyone" for admins.
// A non-zero restaurantID narrows the scope and must be inside it.
func (s *ReportService) ownerScope(ctx context.Context, auth *utils.AuthContext, ownerID, restaurantID uint) ([]uint, error) {
	if auth == nil {
		return nil, utils.NewAuthorizationError("authentication required")
	}

	switch {
	case auth.Role == models.RoleManager:
		if auth.RestaurantID == nil {
			return nil, utils.NewAuthorizationError("manager is not assigned to a restaurant")
		}
		if restaurantID != 0 && restaurantID != *auth.RestaurantID {
			return nil, utils.NewAuthorizationError("you are not a manager of this restaurant")
		}
		return []uint{*auth.RestaurantID}, nil
	case auth.Role == models.RoleOwner:
		if ownerID != 0 && ownerID != auth.UserID {
			return nil, utils.NewAuthorizationError("you can only view your own restaurants")
		}
		ownerID = auth.UserID
	case auth.IsAdmin():
		if ownerID == 0 {
			if restaurantID != 0 {
				if _, err := s.store.RestaurantOwner(ctx, restaurantID); err != nil {
					return nil, err
				}
				return []uint{restaurantID}, nil
			}
			return nil, nil
		}
	default:
		return nil, utils.NewAuthorizationError("insufficient role")
	}

	owned, err := s.store.RestaurantIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owned == nil {
		owned = []uint{}
	}
	if restaurantID != 0 {
		if !slices.Contains(owned, restaurantID) {
			return nil, utils.NewAuthorizationError("you do not own this restaurant")
		}
		return []uint{restaurantID}, nil
	}
	return owned, nil
}

func (s *ReportService) periodReport(ctx context.Context, period Period, restaurantIDs []uint) (*PeriodReport, error) {
	if restaurantIDs == nil {
		restaurantIDs = []uint{}
	}
	if len(restaurantIDs) == 0 {
		return BuildPeriodReport(period, restaurantIDs, nil, nil), nil
	}
	orders, err := s.store.CompletedOrders(ctx, restaurantIDs, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	reservations, err := s.store.Reservations(ctx, restaurantIDs, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	return BuildPeriodReport(period, restaurantIDs, orders, reservations), nil
}

func (s *ReportService) ReportByRestaurant(ctx context.Context, auth *utils.AuthContext, restaurantID uint, q PeriodQuery) (*PeriodReport, error) {
	period, err := ParsePeriod(q.Year, q.Month, q.Day, s.loc)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeRestaurant(ctx, auth, restaurantID); err != nil {
		return nil, err
	}
	return s.periodReport(ctx, period, []uint{restaurantID})
}

// ReportByOwner aggregates every restaurant of an owner, or just restaurantID when given.
func (s *ReportService) ReportByOwner(ctx context.Context, auth *utils.AuthContext, ownerID, restaurantID uint, q PeriodQuery) (*PeriodReport, error) {
	period, err := ParsePeriod(q.Year, q.Month, q.Day, s.loc)
	if err != nil {
		return nil, err
	}
	if auth != nil && auth.Role == models.RoleManager {
		return nil, utils.NewAuthorizationError("owner reports are not available to managers")
	}
	if auth != nil && auth.IsAdmin() && ownerID == 0 && restaurantID == 0 {
		return nil, utils.NewValidationError("ownerId is required")
	}
	ids, err := s.ownerScope(ctx, auth, ownerID, restaurantID)
	if err != nil {
		return nil, err
	}
	return s.periodReport(ctx, period, ids)
}

func (s *ReportService) ReportByManager(ctx context.Context, auth *utils.AuthContext, q PeriodQuery) (*PeriodReport, error) {
	period, err := ParsePeriod(q.Year, q.Month, q.Day, s.loc)
	if err != nil {
		return nil, err
	}
	if auth == nil || auth.Role != models.RoleManager || auth.RestaurantID == nil {
		return nil, utils.NewAuthorizationError("manager access required")
	}
	return s.periodReport(ctx, period, []uint{*auth.RestaurantID})
}

// MonthlyRollup returns the stored daily snapshots of the month plus a TOTAL row.
func (s *ReportService) MonthlyRollup(ctx context.Context, auth *utils.AuthContext, ownerID, restaurantID uint, q PeriodQuery) ([]RollupRow, error) {
	period, err := ParsePeriod(q.Year, q.Month, "", s.loc)
	if err != nil {
		return nil, err
	}
	ids, err := s.ownerScope(ctx, auth, ownerID, restaurantID)
	if err != nil {
		return nil, err
	}
	if ids != nil && len(ids) == 0 {
		return BuildMonthlyRollup(nil), nil
	}
	reports, err := s.store.Snapshots(ctx, ids, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	return BuildMonthlyRollup(reports), nil
}

func (s *ReportService) MonthlyReservations(ctx context.Context, auth *utils.AuthContext, ownerID, restaurantID uint, q PeriodQuery) (*MonthlyReservations, error) {
	period, err := ParsePeriod(q.Year, q.Month, "", s.loc)
	if err != nil {
		return nil, err
	}
	ids, err := s.ownerScope(ctx, auth, ownerID, restaurantID)
	if err != nil {
		return nil, err
	}
	if ids != nil && len(ids) == 0 {
		return BuildMonthlyReservations(nil, s.loc), nil
	}
	reservations, err := s.store.ReservationsWithOrders(ctx, ids, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	return BuildMonthlyReservations(reservations, s.loc), nil
}

func (s *ReportService) RevenueChart(ctx context.Context, auth *utils.AuthContext, restaurantID uint, rng string) ([]RevenuePoint, error) {
	if rng == "" {
		rng = RangeDaily
	}
	now := s.clock()
	start, end, _, err := ChartPeriod(rng, now)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeRestaurant(ctx, auth, restaurantID); err != nil {
		return nil, err
	}
	orders, err := s.store.CheckedOutOrders(ctx, restaurantID, start, end)
	if err != nil {
		return nil, err
	}
	return BuildRevenueChart(rng, now, orders)
}

func (s *ReportService) Summary(ctx context.Context, auth *utils.AuthContext, restaurantID uint) (*DashboardSummary, error) {
	if err := s.AuthorizeRestaurant(ctx, auth, restaurantID); err != nil {
		return nil, err
	}

	now := s.clock()
	today := startOfDay(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

	var summary DashboardSummary
	var err error
	if summary.TotalOrders, summary.TotalUsers, summary.TotalPeople, err = s.store.OrderTotals(ctx, restaurantID); err != nil {
		return nil, err
	}
	if summary.TotalRevenueToday, err = s.store.CompletedRevenue(ctx, restaurantID, today, today.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}
	if summary.TotalRevenueMonth, err = s.store.CompletedRevenue(ctx, restaurantID, monthStart, monthStart.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}
	return &summary, nil
}

// MenuItemsToPrepare lists what the kitchen needs for orders checking in over the next days.
func (s *ReportService) MenuItemsToPrepare(ctx context.Context, auth *utils.AuthContext, restaurantID uint, days int) ([]PrepItem, error) {
	if days <= 0 || days > 60 {
		return nil, utils.NewValidationError("days must be between 1 and 60")
	}
	if err := s.AuthorizeRestaurant(ctx, auth, restaurantID); err != nil {
		return nil, err
	}
	from := startOfDay(s.clock())
	orders, err := s.store.UpcomingOrders(ctx, restaurantID, from, from.AddDate(0, 0, days+1))
	if err != nil {
		return nil, err
	}
	return BuildPrepList(orders, s.loc), nil
}
