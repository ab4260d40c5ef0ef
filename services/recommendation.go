package services

import (
	"booking-restaurant-server/models"
	"context"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const recommendationLimit = 10

// UserSignals is what we know about a user's taste.
type UserSignals struct {
	Favorites  []uint
	Viewed     []uint
	Ordered    []uint
	LastSearch string
}

type ScoredRestaurant struct {
	Restaurant models.Restaurant `json:"restaurant"`
	Score      float64           `json:"score"`
}

// ScoreRestaurant weighs rating x2, +5 favorite, +3 viewed, +4 ordered from,
// +2 when the province matches the user's latest search.
func ScoreRestaurant(r *models.Restaurant, s *UserSignals) float64 {
	score := r.Rating * 2
	if slices.Contains(s.Favorites, r.ID) {
		score += 5
	}
	if slices.Contains(s.Viewed, r.ID) {
		score += 3
	}
	if slices.Contains(s.Ordered, r.ID) {
		score += 4
	}
	if kw := strings.ToLower(strings.TrimSpace(s.LastSearch)); kw != "" && strings.Contains(strings.ToLower(r.Province), kw) {
		score += 2
	}
	return score
}

// Recommend returns the ten best scoring restaurants, highest first.
func Recommend(restaurants []models.Restaurant, s *UserSignals) []ScoredRestaurant {
	scored := make([]ScoredRestaurant, len(restaurants))
	for i := range restaurants {
		scored[i] = ScoredRestaurant{Restaurant: restaurants[i], Score: ScoreRestaurant(&restaurants[i], s)}
	}
	sort.SliceStable(scored, func(a, b int) bool { return scored[a].Score > scored[b].Score })
	if len(scored) > recommendationLimit {
		scored = scored[:recommendationLimit]
	}
	return scored
}

// LoadUserSignals gathers favorites, views, orders and the latest search of a user.
func LoadUserSignals(ctx context.Context, db *gorm.DB, userID uint) (*UserSignals, error) {
	var s UserSignals
	db = db.WithContext(ctx)
	if err := db.Model(&models.FavoriteRestaurant{}).Where("user_id = ?", userID).Pluck("restaurant_id", &s.Favorites).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.ViewLog{}).Where("user_id = ?", userID).Distinct().Pluck("restaurant_id", &s.Viewed).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("user_id = ?", userID).Distinct().Pluck("restaurant_id", &s.Ordered).Error; err != nil {
		return nil, err
	}
	var last models.SearchLog
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Limit(1).Find(&last).Error
	if err != nil {
		return nil, err
	}
	s.LastSearch = last.Keyword
	return &s, nil
}
