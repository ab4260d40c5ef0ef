package services

import (
	"booking-restaurant-server/models"
	"math"
	"sort"
)

// Dining districts users can browse by, with their coordinates
var DiningAreas = map[string]Location{
	"hoan-kiem": {
		Name:     "Hoàn Kiếm, Hà Nội",
		Lat:      21.0285,
		Lng:      105.8542,
		Radius:   2.5, // km
		Type:     "old_quarter",
		Priority: 1,
	},
	"district-1": {
		Name:     "Quận 1, TP. Hồ Chí Minh",
		Lat:      10.7769,
		Lng:      106.7009,
		Radius:   3.0,
		Type:     "city_center",
		Priority: 2,
	},
	"han-river": {
		Name:     "Sông Hàn, Đà Nẵng",
		Lat:      16.0678,
		Lng:      108.2208,
		Radius:   3.0,
		Type:     "riverside",
		Priority: 3,
	},
	"tay-ho": {
		Name:     "Tây Hồ, Hà Nội",
		Lat:      21.0680,
		Lng:      105.8240,
		Radius:   3.0,
		Type:     "lakeside",
		Priority: 4,
	},
	"thao-dien": {
		Name:     "Thảo Điền, TP. Hồ Chí Minh",
		Lat:      10.8033,
		Lng:      106.7357,
		Radius:   2.0,
		Type:     "expat",
		Priority: 5,
	},
}

type Location struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Radius   float64 `json:"radius"` // in kilometers
	Type     string  `json:"type"`
	Priority int     `json:"priority"`
}

// Calculate distance between two points using Haversine formula
func CalculateDistance(lat1, lng1, lat2, lng2 float64) float64 {
	const R = 6371 // Earth's radius in kilometers

	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}

type NearbyRestaurant struct {
	Restaurant models.Restaurant `json:"restaurant"`
	DistanceKm float64           `json:"distanceKm"`
}

// NearbyRestaurants keeps the restaurants within radiusKm of (lat, lng), closest first.
// Restaurants without coordinates are skipped.
func NearbyRestaurants(restaurants []models.Restaurant, lat, lng, radiusKm float64) []NearbyRestaurant {
	out := []NearbyRestaurant{}
	for _, r := range restaurants {
		if r.Lat == 0 && r.Lng == 0 {
			continue
		}
		d := CalculateDistance(lat, lng, r.Lat, r.Lng)
		if d <= radiusKm {
			out = append(out, NearbyRestaurant{Restaurant: r, DistanceKm: math.Round(d*100) / 100})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].DistanceKm < out[b].DistanceKm })
	return out
}

// BoundingBox returns the lat/lng box enclosing a radiusKm circle, used to pre-filter in SQL.
func BoundingBox(lat, lng, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	dLat := radiusKm / 111.0
	dLng := radiusKm / (111.0 * math.Cos(lat*math.Pi/180))
	return lat - dLat, lat + dLat, lng - math.Abs(dLng), lng + math.Abs(dLng)
}

// Get all area keys sorted by priority
func GetAreaKeysByPriority() []string {
	keys := make([]string, 0, len(DiningAreas))
	for key := range DiningAreas {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool { return DiningAreas[keys[a]].Priority < DiningAreas[keys[b]].Priority })
	return keys
}

func GetAreaInfo(key string) (Location, bool) {
	location, exists := DiningAreas[key]
	return location, exists
}
